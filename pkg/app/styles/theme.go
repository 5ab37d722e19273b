package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary    = lipgloss.Color("#FF6B9D")
	Secondary  = lipgloss.Color("#C792EA")
	Success    = lipgloss.Color("#C3E88D")
	Warning    = lipgloss.Color("#FFCB6B")
	Error      = lipgloss.Color("#F07178")
	Muted      = lipgloss.Color("#546E7A")
	Foreground = lipgloss.Color("#EEFFFF")

	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	CardStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(1, 2).
			MarginBottom(1)

	ActiveCardStyle = lipgloss.NewStyle().
			Border(ThickBorder).
			BorderForeground(Primary).
			Padding(1, 2).
			MarginBottom(1)

	NewChapterStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	MutedBellStyle = lipgloss.NewStyle().
			Foreground(Warning)

	StatusError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Background(lipgloss.Color("#37474F")).
			Padding(0, 2).
			Bold(true)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Padding(0, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			MarginTop(1)
)
