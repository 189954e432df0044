// Package series turns grouped benchmark records into chart-ready (x, y)
// series for the fixed metric pairings.
package series

import (
	"sort"

	"github.com/mwiater/benchviz/internal/records"
)

// Point is one (x, y) pair plus the context used to annotate it.
type Point struct {
	X           float64
	Y           float64
	RequestRate float64
	Filename    string
}

// Series is the ordered points of one group for one pairing.
type Series struct {
	Label  string
	Points []Point
}

// Build returns, in group order, one Series per group that has at least one
// record reporting both of the pairing's fields. Points are sorted by X
// ascending; equal X values keep their input order.
func Build(groups []records.Group, p Pairing) []Series {
	var out []Series
	for _, g := range groups {
		points := make([]Point, 0, len(g.Records))
		for _, r := range g.Records {
			x, ok := p.X.Value(r)
			if !ok {
				continue
			}
			y, ok := p.Y.Value(r)
			if !ok {
				continue
			}
			points = append(points, Point{X: x, Y: y, RequestRate: r.RequestRate, Filename: r.Filename})
		}
		if len(points) == 0 {
			continue
		}
		sort.SliceStable(points, func(i, j int) bool { return points[i].X < points[j].X })
		out = append(out, Series{Label: g.Label, Points: points})
	}
	return out
}
