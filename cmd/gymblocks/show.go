package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hubastard/gymblocks/planner/model"
	"github.com/hubastard/gymblocks/planner/render"
	"github.com/hubastard/gymblocks/planner/store"
)

var (
	colorTeal = lipgloss.Color("36")
	colorGray = lipgloss.Color("245")
	colorDim  = lipgloss.Color("240")
	colorDone = lipgloss.Color("35")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorGray).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleDone   = styleCell.Foreground(colorDone)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
)

func newShowCmd() *cobra.Command {
	var week int
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a week of the saved plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger := configFromContext(ctx), loggerFromContext(ctx)

			st, err := store.Open(ctx, cfg.Storage.Path, logger.WithPrefix("store"))
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := loadSnapshot(ctx, st, cfg, logger)
			if err != nil {
				return err
			}
			w := snap.WeekIndex
			if cmd.Flags().Changed("week") {
				w = week - 1
			}
			if w < 0 || w >= len(snap.Plan.Weeks) {
				return fmt.Errorf("week %d out of range [1, %d]", w+1, len(snap.Plan.Weeks))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderWeek(&snap.Plan.Weeks[w]))
			return nil
		},
	}
	cmd.Flags().IntVarP(&week, "week", "w", 1, "week number, starting at 1 (default: the selected week)")
	return cmd
}

// renderWeek lays a week out as one table row per block.
func renderWeek(w *model.Week) string {
	var rows [][]string
	done := map[int]bool{}
	for d := range w.Days {
		day := &w.Days[d]
		if len(day.Blocks) == 0 {
			rows = append(rows, []string{day.Name, styleDim.Render("rest"), "", "", ""})
			continue
		}
		for i := range day.Blocks {
			b := &day.Blocks[i]
			name := ""
			if i == 0 {
				name = day.Name
			}
			if b.Done {
				done[len(rows)] = true
			}
			rows = append(rows, []string{name, b.Name, render.Summary(b), progress(b), b.Notes})
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Day", "Exercise", "Sets", "Done", "Notes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return styleHeader
			case done[row]:
				return styleDone
			}
			return styleCell
		})

	var b strings.Builder
	b.WriteString(styleTitle.Render(w.Name))
	b.WriteString("\n")
	b.WriteString(t.Render())
	return b.String()
}

func progress(b *model.Block) string {
	var s strings.Builder
	for _, v := range b.PerSet {
		if v {
			s.WriteString("■")
		} else {
			s.WriteString("□")
		}
	}
	return fmt.Sprintf("%s %d/%d", s.String(), b.CompletedSets(), b.Sets)
}
