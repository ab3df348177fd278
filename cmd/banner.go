package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/harplay/tui"
	"golang.org/x/term"
)

var bannerLines = []string{
	"@@@  @@@   @@@@@@   @@@@@@@   @@@@@@@   @@@        @@@@@@   @@@ @@@",
	"@@!  @@@  @@!  @@@  @@!  @@@  @@!  @@@  @@!       @@!  @@@  @@! !@@",
	"@!@!@!@!  @!@!@!@!  @!@!!@!   @!@@!@!   @!!       @!@!@!@!   !@!@! ",
	"!!:  !!!  !!:  !!!  !!: :!!   !!:       !!:       !!:  !!!    !!:  ",
	" :   : :   :   : :   :   : :   :        : ::.: :   :   : :    .:   ",
}

// RenderBanner returns the harplay banner, colored when styled is set
func RenderBanner(styled bool) string {
	subtitle := "harplay - replay recorded browser sessions"
	if !styled {
		return strings.Join(bannerLines, "\n") + "\n" + subtitle + "\n"
	}

	bannerStyle := lipgloss.NewStyle().
		Foreground(tui.RGBPink).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(tui.RGBBlue).
		Italic(true)

	containerStyle := lipgloss.NewStyle().
		Align(lipgloss.Left).
		MarginBottom(1)

	var b strings.Builder
	for _, line := range bannerLines {
		b.WriteString(bannerStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(subtitleStyle.Render(subtitle))

	return containerStyle.Render(b.String())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
