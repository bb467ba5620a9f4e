package editor

import (
	"strconv"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubastard/gymblocks/planner/model"
)

const (
	fieldName = iota
	fieldSets
	fieldReps
	fieldWeight
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Sets", "Reps", "Weight", "Notes"}

const maxFieldLen = 64

// formModel edits a block's fields, one text line per field.
type formModel struct {
	Title  string
	Values [fieldCount]string
	Focus  int

	Submitted bool
	Cancelled bool
}

func newForm(title string, f model.Fields) formModel {
	m := formModel{Title: title}
	m.Values[fieldName] = f.Name
	m.Values[fieldSets] = itoa(f.Sets)
	m.Values[fieldReps] = itoa(f.Reps)
	m.Values[fieldWeight] = f.Weight
	m.Values[fieldNotes] = f.Notes
	return m
}

func itoa(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// Fields parses the form. Numbers that don't parse come back as 0.
func (m formModel) Fields() model.Fields {
	sets, _ := strconv.Atoi(m.Values[fieldSets])
	reps, _ := strconv.Atoi(m.Values[fieldReps])
	return model.Fields{
		Name:   strings.TrimSpace(m.Values[fieldName]),
		Sets:   sets,
		Reps:   reps,
		Weight: strings.TrimSpace(m.Values[fieldWeight]),
		Notes:  strings.TrimSpace(m.Values[fieldNotes]),
	}
}

func (m formModel) Init() tea.Cmd { return nil }

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "esc", "ctrl+c":
		m.Cancelled = true
		return m, tea.Quit
	case "ctrl+s":
		m.Submitted = true
		return m, tea.Quit
	case "enter":
		if m.Focus == fieldCount-1 {
			m.Submitted = true
			return m, tea.Quit
		}
		m.Focus++
	case "tab", "down":
		m.Focus = (m.Focus + 1) % fieldCount
	case "shift+tab", "up":
		m.Focus = (m.Focus + fieldCount - 1) % fieldCount
	case "backspace":
		if v := []rune(m.Values[m.Focus]); len(v) > 0 {
			m.Values[m.Focus] = string(v[:len(v)-1])
		}
	case "ctrl+u":
		m.Values[m.Focus] = ""
	default:
		switch key.Type {
		case tea.KeyRunes:
			m.insert(key.Runes)
		case tea.KeySpace:
			m.insert([]rune{' '})
		}
	}
	return m, nil
}

func (m *formModel) insert(rs []rune) {
	numeric := m.Focus == fieldSets || m.Focus == fieldReps
	v := []rune(m.Values[m.Focus])
	for _, r := range rs {
		if numeric && !unicode.IsDigit(r) {
			continue
		}
		if len(v) >= maxFieldLen {
			break
		}
		v = append(v, r)
	}
	m.Values[m.Focus] = string(v)
}

func (m formModel) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(m.Title))
	b.WriteString("\n\n")
	for i, v := range m.Values {
		line := v
		style := styleNormal
		if i == m.Focus {
			line += "█"
			style = styleSelected
		}
		b.WriteString(styleLabel.Render(fieldLabels[i]))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleDim.Render("tab next  ⏎ next/save  ctrl+s save  esc cancel"))
	return styleBox.Render(b.String()) + "\n"
}
