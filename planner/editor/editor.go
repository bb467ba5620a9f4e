// Package editor answers the planner's dialogs in the terminal the app was started from.
// Dialogs run one at a time on their own goroutine so the window keeps painting.
package editor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/hubastard/gymblocks/planner/app"
	"github.com/hubastard/gymblocks/planner/images"
	"github.com/hubastard/gymblocks/planner/model"
)

const customOption = "Custom..."

// Console implements app.Editor with bubbletea programs.
type Console struct {
	logger *log.Logger

	mu  sync.Mutex // one program owns the terminal at a time
	run func(tea.Model) (tea.Model, error)
}

func New(ctx context.Context, in io.Reader, out io.Writer, logger *log.Logger) *Console {
	c := &Console{logger: logger.WithPrefix("editor")}
	c.run = func(m tea.Model) (tea.Model, error) {
		return tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out)).Run()
	}
	return c
}

func (c *Console) Request(req app.EditRequest, reply func(app.EditResult)) {
	go func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		res, err := c.dialog(req)
		if err != nil {
			c.logger.Warn("dialog failed", "kind", req.Kind, "err", err)
			res = app.EditResult{}
		}
		reply(res)
	}()
}

func (c *Console) dialog(req app.EditRequest) (app.EditResult, error) {
	switch req.Kind {
	case app.EditCreate:
		return c.create(req)
	case app.EditUpdate:
		return c.form(fmt.Sprintf("Edit %q", req.Current.Name), req.Current)
	case app.EditConfirmDelete:
		ch := newChoice(fmt.Sprintf("Delete %q?", req.Current.Name), []string{"Keep", "Delete"})
		ch.Danger = true
		i, err := c.choose(ch)
		return app.EditResult{OK: i == 1}, err
	case app.EditChoosePresetImage:
		labels := make([]string, len(req.Images))
		for i, ref := range req.Images {
			labels[i] = strings.TrimPrefix(ref, images.PresetPrefix)
		}
		i, err := c.choose(newChoice("Choose an icon", labels))
		if err != nil || i < 0 {
			return app.EditResult{}, err
		}
		return app.EditResult{OK: true, Image: req.Images[i]}, nil
	}
	return app.EditResult{}, fmt.Errorf("unknown dialog %v", req.Kind)
}

// create offers the presets first; the last option opens an empty form.
func (c *Console) create(req app.EditRequest) (app.EditResult, error) {
	title := "New block"
	if req.Day >= 0 && req.Day < model.DaysPerWeek {
		title += " for " + model.DayNames[req.Day]
	}
	if len(req.Presets) > 0 {
		opts := make([]string, 0, len(req.Presets)+1)
		for _, p := range req.Presets {
			opts = append(opts, fmt.Sprintf("%s  (%d x %d)", p.Name, p.Fields.Sets, p.Fields.Reps))
		}
		opts = append(opts, customOption)
		i, err := c.choose(newChoice(title, opts))
		if err != nil || i < 0 {
			return app.EditResult{}, err
		}
		if i < len(req.Presets) {
			p := req.Presets[i]
			return app.EditResult{OK: true, Fields: p.Fields, Image: p.Image}, nil
		}
	}
	return c.form(title, model.Fields{Name: "Custom Exercise", Sets: 4, Reps: 10})
}

func (c *Console) form(title string, f model.Fields) (app.EditResult, error) {
	out, err := c.run(newForm(title, f))
	if err != nil {
		return app.EditResult{}, err
	}
	fm, ok := out.(formModel)
	if !ok || !fm.Submitted {
		return app.EditResult{}, nil
	}
	return app.EditResult{OK: true, Fields: fm.Fields()}, nil
}

// choose returns the chosen index, or -1 when cancelled.
func (c *Console) choose(m choiceModel) (int, error) {
	out, err := c.run(m)
	if err != nil {
		return -1, err
	}
	cm, ok := out.(choiceModel)
	if !ok || cm.Cancelled {
		return -1, nil
	}
	return cm.Chosen, nil
}
