package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh  = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// console prints human-facing status lines. It writes next to the log so
// a document rendered to stdout is never mixed with status output.
type console struct {
	w io.Writer
}

func (c console) line(s string) {
	fmt.Fprintln(c.w, s)
}

func (c console) success(format string, args ...any) {
	c.line(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (c console) failure(format string, args ...any) {
	c.line(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func (c console) warning(format string, args ...any) {
	c.line(styleWarning.Render(iconWarning) + " " + styleWarning.Render(fmt.Sprintf(format, args...)))
}

func (c console) info(format string, args ...any) {
	c.line(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func (c console) file(path string) {
	c.line("  " + styleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

func (c console) keyValue(key, value string) {
	c.line(styleKey.Render(key) + " " + styleValue.Render(value))
}

// stats prints a one-line render summary, e.g. "1156 cells · 1089 records · fresh".
func (c console) stats(cells, records int, cached bool) {
	var parts []string
	if cells > 0 {
		parts = append(parts, styleDim.Render(fmt.Sprintf("%d cells", cells)))
	}
	if records > 0 {
		parts = append(parts, styleDim.Render(fmt.Sprintf("%d records", records)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleFresh.Render("fresh"))
	}
	c.line("  " + strings.Join(parts, styleDim.Render(" · ")))
}
