package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header HeaderTheme
	Form   FormTheme
	Footer FooterTheme
}

// HeaderTheme styles the title block.
type HeaderTheme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
}

// FormTheme styles the response panel and the input row.
type FormTheme struct {
	Frame          lipgloss.Style
	ResponseFrame  lipgloss.Style
	ResponseLabel  lipgloss.Style
	Response       lipgloss.Style
	Status         lipgloss.Style
	Error          lipgloss.Style
	Input          lipgloss.Style
	InputDisabled  lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
}

// FooterTheme groups styles used by the bottom help line.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	button := lipgloss.NewStyle().
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color("33")).
		Bold(true).
		Padding(0, 2)

	return Theme{
		Header: HeaderTheme{
			Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("26")),
			Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
		Form: FormTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(1, 2),
			ResponseFrame: lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("238")).
				Padding(0, 1),
			ResponseLabel:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
			Response:       lipgloss.NewStyle(),
			Status:         lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244")),
			Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
			Input:          lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("33")).Padding(0, 1),
			InputDisabled:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Foreground(lipgloss.Color("242")).Padding(0, 1),
			Button:         button,
			ButtonDisabled: button.Background(lipgloss.Color("67")).Foreground(lipgloss.Color("252")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
	}
}
