package inspector

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/muurk/smartap-inspector/internal/panel"
	"github.com/muurk/smartap-inspector/internal/version"
)

// Application branding constants
const (
	AppName   = "SMARTAP INSPECTOR"
	GitHubURL = "github.com/muurk/smartap-inspector"
)

// Layout constants for responsive terminal width
const (
	MinTerminalWidth  = 72
	MinTerminalHeight = 20
	ListPaneWidth     = 30
)

// The inspector shares the panel's palette.
var (
	PrimaryColor   = panel.PrimaryColor
	SecondaryColor = panel.SecondaryColor
	WarningColor   = panel.WarningColor
	ErrorColor     = panel.ErrorColor
	TextColor      = panel.TextColor
	SubtleColor    = panel.SubtleColor
	BorderColor    = panel.PrimaryColor
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	ListItemStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedListItemStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	// Pane border when the pane has keyboard focus
	ActivePaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor)

	InactivePaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(SubtleColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	StatusInfoStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	StatusSuccessStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	ModifiedStyle = lipgloss.NewStyle().
			Foreground(WarningColor)
)

// BuildHeaderContent creates header content with app name and GitHub URL
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + version.Version)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// RenderApplicationContainer wraps a screen in the bordered frame with the
// application header on top and the help text pinned to the bottom.
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footer := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(footerText)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		contentStyle.Render(content),
		footerStyle.Render(footer),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// chromeHeight is the number of lines the container and status line take
// from the terminal height: outer border, header with rule, footer rule
// and help line, status line, pane borders.
const chromeHeight = 2 + 2 + 2 + 1 + 2

// GetTerminalSize returns the current terminal size, with a fallback when
// stdout is not a terminal.
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 100, 30
	}
	return max(width, MinTerminalWidth), max(height, MinTerminalHeight)
}
