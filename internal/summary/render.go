package summary

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mwiater/benchviz/internal/util"
)

const (
	maxLabelRunes    = 32
	maxFilenameRunes = 40
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	bestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Render writes the best-throughput table and the throughput distribution
// table for the given summaries.
func Render(out io.Writer, summaries []Summary) {
	if len(summaries) == 0 {
		return
	}

	best := make([][]string, 0, len(summaries))
	dist := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		b := s.Best
		label := util.TruncateLeftRunes(s.Label, maxLabelRunes)
		best = append(best, []string{
			label,
			util.TruncateRunes(b.Filename, maxFilenameRunes),
			formatValue(b.Throughput),
			formatValue(b.RequestRate),
			formatOptional(b.Latency),
			formatOptional(b.NormalizedLatency),
			formatOptional(b.CostPerMillionTokens),
		})
		dist = append(dist, []string{
			label,
			strconv.Itoa(s.Count),
			formatValue(s.Throughput.Min),
			formatValue(s.Throughput.Median),
			formatValue(s.Throughput.Mean),
			formatValue(s.Throughput.Max),
		})
	}

	fmt.Fprintln(out, titleStyle.Render("Best throughput per source"))
	fmt.Fprintln(out, newTable(best, 2,
		"Source", "File", "Throughput (tok/s)", "Request Rate (qps)", "Latency (ms)", "Norm. Latency (ms)", "$ / 1M tokens"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, titleStyle.Render("Throughput distribution"))
	fmt.Fprintln(out, newTable(dist, -1, "Source", "Records", "Min", "Median", "Mean", "Max"))
}

// newTable builds a bordered table; highlightCol is rendered with bestStyle
// (pass -1 for none).
func newTable(rows [][]string, highlightCol int, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == highlightCol:
				return bestStyle
			default:
				return cellStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)
}

func formatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatValue(*v)
}
