package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// choiceModel picks one line from a list.
type choiceModel struct {
	Title   string
	Hint    string
	Options []string
	Danger  bool // render the title as a warning

	Cursor    int
	Chosen    int // -1 until enter
	Cancelled bool
}

func newChoice(title string, options []string) choiceModel {
	return choiceModel{Title: title, Options: options, Chosen: -1, Hint: "↑/↓ move  ⏎ choose  esc cancel"}
}

func (m choiceModel) Init() tea.Cmd { return nil }

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "esc", "ctrl+c", "q":
		m.Cancelled = true
		return m, tea.Quit
	case "up", "k", "shift+tab":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j", "tab":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter":
		if len(m.Options) == 0 {
			return m, nil
		}
		m.Chosen = m.Cursor
		return m, tea.Quit
	}
	return m, nil
}

func (m choiceModel) View() string {
	var b strings.Builder
	title := styleTitle
	if m.Danger {
		title = styleDanger
	}
	b.WriteString(title.Render(m.Title))
	b.WriteString("\n\n")
	for i, o := range m.Options {
		if i == m.Cursor {
			b.WriteString(styleSelected.Render("▸ " + o))
		} else {
			b.WriteString(styleNormal.Render("  " + o))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleDim.Render(m.Hint))
	return styleBox.Render(b.String()) + "\n"
}
