package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/threecard/internal/simulator"
	"github.com/lox/threecard/sdk"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Width(18)

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
)

// signed colours a number by its sign
func signed(format string, v float64) string {
	s := fmt.Sprintf(format, v)
	switch {
	case v > 0:
		return winStyle.Render("+" + s)
	case v < 0:
		return lossStyle.Render(s)
	default:
		return s
	}
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func renderReport(w io.Writer, cfg simulator.Config, res *simulator.Result) {
	st := &res.Stats
	lo, hi := st.ConfidenceInterval95()

	mode := ""
	if cfg.Duplicate {
		mode = ", duplicate"
	}

	lines := []string{
		headerStyle.Render(fmt.Sprintf("%s vs %s", cfg.HeroName, cfg.OpponentName)),
		dimStyle.Render(fmt.Sprintf("%d games × %d rounds, seed %d%s, %s",
			len(res.Games), cfg.Rules.Rounds, cfg.Seed, mode, res.Elapsed.Round(time.Millisecond))),
		"",
		row("Bankroll", signed("%.0f", float64(res.Bankroll))),
		row("Games won", fmt.Sprintf("%d/%d", res.Won, len(res.Games))),
		row("bb/round", signed("%.3f", st.Mean())),
		row("95% CI", fmt.Sprintf("[%.3f, %.3f]", lo, hi)),
		row("Std dev", fmt.Sprintf("%.2f bb", st.StdDev())),
		row("Median", fmt.Sprintf("%.2f bb", st.Median())),
		"",
		row("Small blind", signed("%.3f", st.SeatMean(0))+dimStyle.Render(" bb/round")),
		row("Big blind", signed("%.3f", st.SeatMean(1))+dimStyle.Render(" bb/round")),
		row("Showdown", signed("%.1f", st.ShowdownBB)+dimStyle.Render(fmt.Sprintf(" bb, %d won", st.ShowdownWins))),
		row("No showdown", signed("%.1f", st.NonShowdownBB)+dimStyle.Render(fmt.Sprintf(" bb, %d won", st.NonShowdownWins))),
		"",
		row("Rounds ended", streetEnds(st.StreetEnds)),
	}
	if res.Illegal > 0 || res.Timeouts > 0 {
		lines = append(lines, "", lossStyle.Render(fmt.Sprintf("%d illegal actions, %d timeouts", res.Illegal, res.Timeouts)))
	}

	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

func streetEnds(ends [6]int) string {
	parts := make([]string, 0, 4)
	for _, street := range []int{sdk.StreetPreflop, sdk.StreetTurn, sdk.StreetRiver} {
		parts = append(parts, fmt.Sprintf("%s %d", sdk.StreetName(street), ends[street]))
	}
	return strings.Join(parts, ", ")
}
