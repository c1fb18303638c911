package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pancakefix/internal/gcode"
)

const fitEpsilon = 1e-6

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

func renderReport(r gcode.Report, c gcode.Canvas) string {
	var sb strings.Builder

	row := func(label, format string, args ...any) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(" ")
		sb.WriteString(fmt.Sprintf(format, args...))
		sb.WriteString("\n")
	}

	src, t := r.Source, r.Transform
	sb.WriteString(titleStyle.Render("Source"))
	sb.WriteString("\n")
	row("Original bounds:", "X=%.1f to %.1f, Y=%.1f to %.1f", src.MinX, src.MaxX, src.MinY, src.MaxY)
	row("Original size:", "%.1fmm x %.1fmm", t.Width, t.Height)
	row("Scale factor:", "%.4f", t.Scale)
	row("New size:", "%.1fmm x %.1fmm", t.NewWidth, t.NewHeight)
	row("Offset:", "X%+.1f, Y%+.1f", t.OffsetX, t.OffsetY)

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("Result"))
	sb.WriteString("\n")
	res := r.Result
	row("New bounds:", "X=%.1f to %.1f, Y=%.1f to %.1f", res.MinX, res.MaxX, res.MinY, res.MaxY)
	row("Lines:", "%d (%d scaled, %d workspace removed)", r.Stats.Lines, r.Stats.Scaled, r.Stats.WorkspaceRemoved)
	row("Valve:", "%d opened, %d closed, %d unmatched", r.Stats.ValveOpened, r.Stats.ValveClosed, r.Stats.UnmatchedValve)

	if res.Within(c, fitEpsilon) {
		sb.WriteString(successStyle.Render(fmt.Sprintf("✓ Fits within X:%gmm, Y:%gmm limits", c.MaxX, c.MaxY)))
	} else {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("! Exceeds X:%gmm, Y:%gmm limits", c.MaxX, c.MaxY)))
	}
	sb.WriteString("\n")

	return sb.String()
}
