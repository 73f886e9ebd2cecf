package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette
	Blue      = lipgloss.Color("#4F8EF7")
	Cyan      = lipgloss.Color("#00D4D4")
	Green     = lipgloss.Color("#3FD17A")
	Yellow    = lipgloss.Color("#FFD34E")
	Red       = lipgloss.Color("#FF4136")
	LightGray = lipgloss.Color("#aaaaaa")
	White     = lipgloss.Color("#e0e0e0")

	// Banner and menu frame
	RuleStyle = lipgloss.NewStyle().
			Foreground(Blue)

	TitleStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true)

	StatusProviderStyle = lipgloss.NewStyle().
				Background(Cyan).
				Foreground(lipgloss.Color("#0D0208")).
				Bold(true).
				Padding(0, 1)

	// Prompts
	PromptStyle = lipgloss.NewStyle().
			Foreground(Cyan)

	// Answers
	AnswerLabelStyle = lipgloss.NewStyle().
				Foreground(Green).
				Bold(true)

	AnswerStyle = lipgloss.NewStyle().
			Foreground(White)

	// Section headers inside statistics and progress views
	SectionStyle = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Yellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Yellow)

	HelpStyle = lipgloss.NewStyle().
			Foreground(LightGray)
)

const rule = "═══════════════════════════════════════════════════════════════"

// Rule is the horizontal line framing banners and the menu.
func Rule() string { return RuleStyle.Render(rule) }
