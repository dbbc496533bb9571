package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/MalithGihan/pfdgen-service/internal/diagram"
	"github.com/MalithGihan/pfdgen-service/internal/flow"
	"github.com/MalithGihan/pfdgen-service/internal/ingest"
	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2).
			MarginRight(1)

	recycleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func summaryCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print equipment, streams and recycle loops of a process model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := ingest.ParseFile(cmd.Context(), in, nil)
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), parsed.Model)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "input", "i", "", "process model file")
	cmd.MarkFlagRequired("input")
	return cmd
}

func writeSummary(w io.Writer, m types.ProcessModel) {
	a := flow.Analyze(m)

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statsStyle.Render(fmt.Sprintf("Equipment\n%d", len(m.Equipment))),
		statsStyle.Render(fmt.Sprintf("Streams\n%d", len(m.Streams))),
		statsStyle.Render(fmt.Sprintf("Recycle Loops\n%d", len(a.Recycles))),
	)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Process Summary") + "\n")
	b.WriteString(stats + "\n\n")

	b.WriteString(titleStyle.Render("Equipment") + "\n")
	for _, e := range m.Equipment {
		fmt.Fprintf(&b, "  %s  %s", e.ID, diagram.TypeLabel(e.Type))
		if e.Spec != "" {
			b.WriteString(dimStyle.Render("  " + e.Spec))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + titleStyle.Render("Streams") + "\n")
	for _, s := range m.Streams {
		line := fmt.Sprintf("  %s  %s → %s", s.ID, s.From, s.To)
		if s.Flow != nil {
			line += fmt.Sprintf(" (%s units)", s.Flow.String())
		}
		if a.IsRecycle(s.From, s.To) {
			line += " " + recycleStyle.Render("[RECYCLE]")
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprint(w, b.String())
}
