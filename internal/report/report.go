// Package report runs one end-to-end benchmark report: extraction, charts,
// console summaries and the optional analysis JSON.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"

	"github.com/mwiater/benchviz/internal/chart"
	"github.com/mwiater/benchviz/internal/logging"
	"github.com/mwiater/benchviz/internal/records"
	"github.com/mwiater/benchviz/internal/series"
	"github.com/mwiater/benchviz/internal/summary"
)

// Options captures the inputs for one report run.
type Options struct {
	Dirs         []string
	PricePerHour *float64
	Chart        chart.Options
	AnalysisPath string
	Debug        bool
	NoColor      bool
}

// ChartResult records one written chart.
type ChartResult struct {
	Pairing series.Pairing
	Path    string
	Series  []series.Series
}

// Result is everything a run produced.
type Result struct {
	Groups    []records.Group
	Charts    []ChartResult
	Summaries []summary.Summary
}

// Records returns the total number of records across all groups.
func (r Result) Records() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Records)
	}
	return n
}

// Run extracts records from every input directory, renders a chart per
// pairing with data, and prints per-source summaries to out. Data problems
// are printed and logged, never returned; only failures to write an output
// artifact are errors.
func Run(opts Options, out io.Writer) (Result, error) {
	p := newPrinter(out, opts.NoColor)

	groups, diags := records.ExtractAll(opts.Dirs, records.Options{PricePerHour: opts.PricePerHour})
	for _, d := range diags {
		p.diagnostic(d)
		logging.LogFileEvent(d.Severity.String(), d.Source, d.File, d.Message)
	}
	res := Result{Groups: groups}

	for _, g := range groups {
		if len(g.Records) == 0 {
			p.warnf("No records with core metrics were parsed from %s.", g.Dir)
		}
	}

	if opts.Debug {
		_, _ = pp.Fprintln(out, groups)
	}

	if res.Records() == 0 {
		p.warnf("No data points with core metrics (throughput, request_rate) were parsed. Cannot generate any plots.")
		logging.LogEvent("[REPORT] no records across %d input(s)", len(opts.Dirs))
		return res, nil
	}

	for _, pairing := range series.Pairings(opts.PricePerHour != nil) {
		ss := series.Build(groups, pairing)
		if len(ss) == 0 {
			p.warnf("No valid data for '%s'. Cannot generate plot.", pairing.Title)
			continue
		}
		path, dropped, err := chart.Render(ss, pairing, opts.Chart)
		if dropped > 0 {
			p.warnf("%d point(s) with non-finite values left out of '%s'.", dropped, pairing.Title)
		}
		if errors.Is(err, chart.ErrNoData) {
			p.warnf("No valid data for '%s'. Cannot generate plot.", pairing.Title)
			continue
		}
		if err != nil {
			return res, err
		}
		p.infof("Chart saved to %s", path)
		logging.LogEvent("[REPORT] chart %s written to %s (%d series)", pairing.Name, path, len(ss))
		res.Charts = append(res.Charts, ChartResult{Pairing: pairing, Path: path, Series: ss})
	}
	if opts.PricePerHour == nil {
		p.infof("Skipping cost plot as --instance-price-per-hour was not provided.")
	}

	res.Summaries = summary.SummarizeAll(groups)
	fmt.Fprintln(out)
	summary.Render(out, res.Summaries)

	if opts.AnalysisPath != "" {
		if err := writeAnalysisJSON(opts.AnalysisPath, buildAnalysis(opts, res)); err != nil {
			return res, err
		}
		fmt.Fprintf(out, "Analysis JSON written to %s\n", opts.AnalysisPath)
	}
	return res, nil
}

type printer struct {
	out  io.Writer
	info *color.Color
	warn *color.Color
	fail *color.Color
	dim  *color.Color
}

func newPrinter(out io.Writer, noColor bool) *printer {
	p := &printer{
		out:  out,
		info: color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed, color.Bold),
		dim:  color.New(color.FgHiBlack),
	}
	if noColor {
		for _, c := range []*color.Color{p.info, p.warn, p.fail, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) diagnostic(d records.Diagnostic) {
	switch d.Severity {
	case records.SeverityError:
		p.fail.Fprintf(p.out, "ERROR ")
	case records.SeverityWarn:
		p.warn.Fprintf(p.out, "WARN  ")
	default:
		p.dim.Fprintf(p.out, "INFO  ")
	}
	fmt.Fprintln(p.out, d.String())
}

func (p *printer) infof(format string, args ...any) {
	p.info.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) warnf(format string, args ...any) {
	p.warn.Fprintf(p.out, format+"\n", args...)
}
