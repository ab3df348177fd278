package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

// Color constants matching vacuum
var (
	RGBBlue   = lipgloss.Color("45")
	RGBPink   = lipgloss.Color("201")
	RGBRed    = lipgloss.Color("196")
	RGBYellow = lipgloss.Color("220")
	RGBGreen  = lipgloss.Color("46")
	RGBGrey   = lipgloss.Color("246")
)

// General styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBPink)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(RGBGrey)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBBlue).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	WarningStyle = lipgloss.NewStyle().
			Foreground(RGBYellow)
)

// method colors follow the usual read/write split
func methodStyle(method string) lipgloss.Style {
	switch method {
	case "get", "head", "options":
		return CellStyle.Foreground(RGBGreen)
	case "delete":
		return CellStyle.Foreground(RGBRed)
	default:
		return CellStyle.Foreground(RGBYellow)
	}
}
