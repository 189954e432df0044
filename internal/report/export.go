package report

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mwiater/benchviz/internal/records"
	"github.com/mwiater/benchviz/internal/series"
	"github.com/mwiater/benchviz/internal/summary"
	"github.com/mwiater/benchviz/internal/util"
)

// number encodes NaN and infinities as null, which encoding/json rejects.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func optNumber(v *float64) *number {
	if v == nil {
		return nil
	}
	n := number(*v)
	return &n
}

// Analysis is the document written to --analysis-output.
type Analysis struct {
	GeneratedAtUTC time.Time         `json:"generated_at_utc"`
	PricePerHour   *float64          `json:"instance_price_per_hour,omitempty"`
	Sources        []analysisSource  `json:"sources"`
	Charts         []analysisChart   `json:"charts"`
	Summaries      []analysisSummary `json:"summaries"`
}

type analysisSource struct {
	Label   string           `json:"label"`
	Dir     string           `json:"dir"`
	Records []analysisRecord `json:"records"`
}

type analysisRecord struct {
	Filename             string  `json:"filename"`
	Throughput           number  `json:"throughput"`
	RequestRate          number  `json:"request_rate"`
	Latency              *number `json:"latency,omitempty"`
	NormalizedLatency    *number `json:"normalized_latency,omitempty"`
	CostPerMillionTokens *number `json:"cost_per_million_tokens,omitempty"`
	CostInfinite         bool    `json:"cost_infinite,omitempty"`
}

type analysisChart struct {
	Name   string           `json:"name"`
	Title  string           `json:"title"`
	X      string           `json:"x"`
	Y      string           `json:"y"`
	Path   string           `json:"path"`
	Series []analysisSeries `json:"series"`
}

type analysisSeries struct {
	Label  string          `json:"label"`
	Points []analysisPoint `json:"points"`
}

type analysisPoint struct {
	X           number `json:"x"`
	Y           number `json:"y"`
	RequestRate number `json:"request_rate"`
	Filename    string `json:"filename"`
}

type analysisSummary struct {
	Label      string                  `json:"label"`
	Count      int                     `json:"count"`
	Best       analysisRecord          `json:"best"`
	Throughput summary.ThroughputStats `json:"throughput"`
}

func buildAnalysis(opts Options, res Result) Analysis {
	a := Analysis{
		GeneratedAtUTC: time.Now().UTC(),
		PricePerHour:   opts.PricePerHour,
		Sources:        make([]analysisSource, 0, len(res.Groups)),
		Charts:         make([]analysisChart, 0, len(res.Charts)),
		Summaries:      make([]analysisSummary, 0, len(res.Summaries)),
	}
	for _, g := range res.Groups {
		src := analysisSource{Label: g.Label, Dir: g.Dir, Records: make([]analysisRecord, 0, len(g.Records))}
		for _, r := range g.Records {
			src.Records = append(src.Records, toAnalysisRecord(r))
		}
		a.Sources = append(a.Sources, src)
	}
	for _, c := range res.Charts {
		a.Charts = append(a.Charts, analysisChart{
			Name:   c.Pairing.Name,
			Title:  c.Pairing.Title,
			X:      c.Pairing.X.String(),
			Y:      c.Pairing.Y.String(),
			Path:   c.Path,
			Series: toAnalysisSeries(c.Series),
		})
	}
	for _, s := range res.Summaries {
		a.Summaries = append(a.Summaries, analysisSummary{
			Label:      s.Label,
			Count:      s.Count,
			Best:       toAnalysisRecord(s.Best),
			Throughput: s.Throughput,
		})
	}
	return a
}

func toAnalysisRecord(r records.Record) analysisRecord {
	out := analysisRecord{
		Filename:             r.Filename,
		Throughput:           number(r.Throughput),
		RequestRate:          number(r.RequestRate),
		Latency:              optNumber(r.Latency),
		NormalizedLatency:    optNumber(r.NormalizedLatency),
		CostPerMillionTokens: optNumber(r.CostPerMillionTokens),
	}
	if c := r.CostPerMillionTokens; c != nil && math.IsInf(*c, 1) {
		out.CostInfinite = true
	}
	return out
}

func toAnalysisSeries(ss []series.Series) []analysisSeries {
	out := make([]analysisSeries, 0, len(ss))
	for _, s := range ss {
		as := analysisSeries{Label: s.Label, Points: make([]analysisPoint, 0, len(s.Points))}
		for _, p := range s.Points {
			as.Points = append(as.Points, analysisPoint{
				X:           number(p.X),
				Y:           number(p.Y),
				RequestRate: number(p.RequestRate),
				Filename:    p.Filename,
			})
		}
		out = append(out, as)
	}
	return out
}

func writeAnalysisJSON(path string, analysis Analysis) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal analysis JSON: %w", err)
	}

	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("unable to write analysis JSON %s: %w", path, err)
	}
	return nil
}
