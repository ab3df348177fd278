package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/pb33f/harplay/motor"
)

// PlanViewOptions controls how a replay plan preview is drawn
type PlanViewOptions struct {
	// Styled enables colors and rounded borders; plain output is ASCII only.
	Styled bool
	// Width truncates long paths so the table fits; 0 disables truncation.
	Width int
	Login motor.LoginOptions
}

// RenderPlan draws the directives of session as a table preceded by a short summary.
func RenderPlan(session *motor.Session, archive *motor.Archive, opts PlanViewOptions) string {
	var b strings.Builder

	b.WriteString(title("Replay plan", opts.Styled))
	b.WriteString("\n")
	for _, line := range summaryLines(session, archive, opts) {
		b.WriteString(subtitle(line, opts.Styled))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(session.Directives) == 0 {
		b.WriteString(warning("no requests to replay", opts.Styled))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(planTable(session.Directives, opts).String())
	b.WriteString("\n")
	return b.String()
}

func summaryLines(session *motor.Session, archive *motor.Archive, opts PlanViewOptions) []string {
	var lines []string

	if archive != nil {
		lines = append(lines, fmt.Sprintf("archive: %s, %d entries, %d excluded, fingerprint %s",
			humanize.Bytes(uint64(archive.Size)), archive.Total, archive.Excluded, archive.Hash))
	}

	login := "login: none found, runner generation will fail"
	if creds, err := session.Login.Credentials(opts.Login); err == nil {
		login = fmt.Sprintf("login: %s", creds.Username)
		if session.LoginAttempts > 1 {
			login += fmt.Sprintf(" (last of %d attempts)", session.LoginAttempts)
		}
	} else if session.Login != nil {
		login = "login: " + err.Error()
	}
	lines = append(lines, login)

	lines = append(lines, fmt.Sprintf("requests: %d, token refreshes: %d, profiled: %d",
		len(session.Directives), session.TokenRefreshes(), session.Profiled()))

	return lines
}

func planTable(directives []motor.Directive, opts PlanViewOptions) *table.Table {
	rows := make([][]string, 0, len(directives))
	for i, d := range directives {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strings.ToUpper(d.Method),
			truncate(d.Path, pathWidth(opts.Width)),
			marker(d.RefreshToken, tokenMarker),
			marker(d.Profile, profileMarker),
			truncate(formatParams(d.Params), maxParamsWidth),
		})
	}

	t := table.New().
		Headers("#", "METHOD", "PATH", "TOKEN", "PROFILE", "PARAMS").
		Rows(rows...)

	if !opts.Styled {
		return t.Border(lipgloss.ASCIIBorder())
	}

	return t.
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(RGBGrey)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			d := directives[row]
			switch col {
			case planMethodColumn:
				return methodStyle(d.Method)
			case planTokenColumn:
				return CellStyle.Foreground(RGBBlue)
			case planProfileColumn:
				return CellStyle.Foreground(RGBPink)
			case planIndexColumn, planParamsColumn:
				return CellStyle.Foreground(RGBGrey)
			case planPathColumn:
				return CellStyle.Bold(d.Profile)
			default:
				return CellStyle
			}
		})
}

// pathWidth leaves room for the fixed columns when a terminal width is known
func pathWidth(width int) int {
	if width <= 0 {
		return 0
	}
	return max(width-maxParamsWidth-40, minPathColumnWidth)
}

func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, " ")
}

func marker(set bool, label string) string {
	if set {
		return label
	}
	return ""
}

// truncate shortens s to width terminal cells without splitting a rune
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

func title(s string, styled bool) string {
	if styled {
		return TitleStyle.Render(s)
	}
	return s
}

func subtitle(s string, styled bool) string {
	if styled {
		return SubtitleStyle.Render(s)
	}
	return s
}

func warning(s string, styled bool) string {
	if styled {
		return WarningStyle.Render(s)
	}
	return s
}
