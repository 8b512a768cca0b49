// internal/ui/styles.go

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Kolory
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#B58900", Dark: "#F2C94C"}
	failure   = lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF0000"}

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	ItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	InputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(highlight).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(warning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(failure).
			Bold(true)

	WindowStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1, 2)

	RuleStyle = lipgloss.NewStyle().
			Foreground(subtle)
)

// Banner prints a title framed by rules of '=' as wide as width.
func Banner(w io.Writer, title string, width int) {
	rule := RuleStyle.Render(strings.Repeat("=", width))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, TitleStyle.Render(title))
	fmt.Fprintln(w, rule)
}

func Success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

func Warn(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, WarningStyle.Render(fmt.Sprintf(format, args...)))
}

func Error(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

// GetMaxWidth zwraca maksymalną szerokość tekstu w slice'u
func GetMaxWidth(items []string) int {
	maxWidth := 0
	for _, item := range items {
		if w := lipgloss.Width(item); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}
