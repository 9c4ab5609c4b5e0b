package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorDanger  = lipgloss.Color("#FF6B6B")
	colorWarning = lipgloss.Color("#FFD93D")
	colorSuccess = lipgloss.Color("#6BCF7F")
	colorMuted   = lipgloss.Color("#6C757D")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	draftStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)
)

func printError(err error) {
	printlnFn(errorStyle.Render("error: " + err.Error()))
}

func printWarning(format string, args ...any) {
	printlnFn(warningStyle.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) {
	printlnFn(successStyle.Render(fmt.Sprintf(format, args...)))
}

func printMuted(format string, args ...any) {
	printlnFn(mutedStyle.Render(fmt.Sprintf(format, args...)))
}
