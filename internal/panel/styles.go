package panel

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5F5F") // Red

	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
)

// Styles shared by the panel and the entries in package entry.
var (
	// Header line naming the selected element
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	HeaderTypeStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	GroupHeaderStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true)

	// Group header without edited entries
	EmptyGroupHeaderStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	FocusedRowStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	// Dot shown next to groups that contain data
	EditedMarkerStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor)

	EntryLabelStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Faint(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Italic(true)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Padding(1, 2)
)

const (
	arrowOpen   = "▾"
	arrowClosed = "▸"
	editedDot   = "●"
	cursorMark  = "›"
)

// EntryIndent is the left padding of entry rows inside a group.
const EntryIndent = 4
