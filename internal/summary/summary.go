// Package summary picks the best-throughput record of each group and
// computes throughput statistics for the console report.
package summary

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/mwiater/benchviz/internal/records"
)

// ThroughputStats describes the throughput distribution of one group.
type ThroughputStats struct {
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
}

// Summary is the per-group report line.
type Summary struct {
	Label      string
	Count      int
	Best       records.Record
	Throughput ThroughputStats
}

// Best returns the record with the highest throughput. Ties go to the record
// that comes first in the slice, which is lexical filename order for
// extracted groups. NaN throughputs are never preferred over real values.
func Best(recs []records.Record) (records.Record, bool) {
	bestIdx := -1
	for i, r := range recs {
		if bestIdx < 0 {
			bestIdx = i
			continue
		}
		cur := recs[bestIdx].Throughput
		if math.IsNaN(cur) && !math.IsNaN(r.Throughput) {
			bestIdx = i
			continue
		}
		if r.Throughput > cur {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return records.Record{}, false
	}
	return recs[bestIdx], true
}

// Summarize builds the Summary for a group, or false if it has no records.
func Summarize(g records.Group) (Summary, bool) {
	best, ok := Best(g.Records)
	if !ok {
		return Summary{}, false
	}
	return Summary{
		Label:      g.Label,
		Count:      len(g.Records),
		Best:       best,
		Throughput: throughputStats(g.Records),
	}, true
}

// SummarizeAll summarizes every non-empty group, preserving group order.
func SummarizeAll(groups []records.Group) []Summary {
	var out []Summary
	for _, g := range groups {
		if s, ok := Summarize(g); ok {
			out = append(out, s)
		}
	}
	return out
}

func throughputStats(recs []records.Record) ThroughputStats {
	xs := make([]float64, 0, len(recs))
	for _, r := range recs {
		if math.IsNaN(r.Throughput) || math.IsInf(r.Throughput, 0) {
			continue
		}
		xs = append(xs, r.Throughput)
	}
	if len(xs) == 0 {
		return ThroughputStats{}
	}
	lo, hi := stats.Bounds(xs)
	return ThroughputStats{
		Min:    lo,
		Median: stats.Sample{Xs: xs}.Quantile(0.5),
		Mean:   stats.Mean(xs),
		Max:    hi,
	}
}
