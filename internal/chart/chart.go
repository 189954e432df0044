// Package chart renders metric series as scatter/line charts with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mwiater/benchviz/internal/series"
	"github.com/mwiater/benchviz/internal/util"
)

// ErrNoData is returned when none of the series has a drawable point.
var ErrNoData = errors.New("no drawable data")

const pointRad = 4

// Options controls where and how charts are written.
type Options struct {
	OutputDir string
	Format    string
	// Width and Height are in inches.
	Width  float64
	Height float64
}

// Path returns the file a pairing's chart is written to.
func (o Options) Path(p series.Pairing) string {
	format := o.Format
	if format == "" {
		format = "png"
	}
	dir := o.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, p.FileBase+"."+format)
}

// Render draws every series for the pairing into one chart and returns the
// written path. Points with a non-finite coordinate are left out; dropped
// reports how many.
func Render(ss []series.Series, p series.Pairing, opts Options) (path string, dropped int, err error) {
	drawable := make([]series.Series, 0, len(ss))
	for _, s := range ss {
		pts := make([]series.Point, 0, len(s.Points))
		for _, pt := range s.Points {
			if !finite(pt.X) || !finite(pt.Y) {
				dropped++
				continue
			}
			pts = append(pts, pt)
		}
		if len(pts) > 0 {
			drawable = append(drawable, series.Series{Label: s.Label, Points: pts})
		}
	}
	if len(drawable) == 0 {
		return "", dropped, ErrNoData
	}

	pl := plot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text = p.XLabel
	pl.Y.Label.Text = p.YLabel
	pl.Legend.Top = true
	pl.Add(plotter.NewGrid())

	colors, err := seriesColors(len(drawable))
	if err != nil {
		return "", dropped, err
	}

	for i, s := range drawable {
		xys, labels := toXYs(s)
		clr := colors[i]

		line, err := plotter.NewLine(xys)
		if err != nil {
			return "", dropped, fmt.Errorf("line for %s: %w", s.Label, err)
		}
		line.LineStyle.Color = clr
		line.LineStyle.Width = vg.Points(1.5)

		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return "", dropped, fmt.Errorf("scatter for %s: %w", s.Label, err)
		}
		scatter.GlyphStyle.Color = clr
		scatter.GlyphStyle.Radius = vg.Points(pointRad)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		if len(drawable) == 1 {
			// A single source is colored by request rate instead.
			if fn := rateGlyphs(s, scatter.GlyphStyle); fn != nil {
				scatter.GlyphStyleFunc = fn
			}
		}

		annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return "", dropped, fmt.Errorf("labels for %s: %w", s.Label, err)
		}
		annotations.Offset = vg.Point{Y: vg.Points(6)}

		pl.Add(line, scatter, annotations)
		if len(drawable) > 1 {
			pl.Legend.Add(s.Label, line, scatter)
		}
	}

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 10
	}
	if height <= 0 {
		height = 6
	}
	path = opts.Path(p)
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return "", dropped, err
	}
	if err := pl.Save(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, path); err != nil {
		return "", dropped, fmt.Errorf("unable to save chart %s: %w", path, err)
	}
	return path, dropped, nil
}

func toXYs(s series.Series) (plotter.XYs, []string) {
	xys := make(plotter.XYs, len(s.Points))
	labels := make([]string, len(s.Points))
	for i, pt := range s.Points {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
		labels[i] = strconv.FormatFloat(pt.RequestRate, 'g', -1, 64) + " qps"
	}
	return xys, labels
}

// seriesColors returns n colors from a qualitative palette, cycling when n
// exceeds the palette size.
func seriesColors(n int) ([]color.Color, error) {
	const maxSet1 = 9
	size := n
	if size < 3 {
		size = 3
	}
	if size > maxSet1 {
		size = maxSet1
	}
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Set1", size)
	if err != nil {
		return nil, fmt.Errorf("series palette: %w", err)
	}
	base := pal.Colors()
	out := make([]color.Color, n)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out, nil
}

// rateGlyphs maps each point's request rate onto a blue-red color scale. It
// returns nil when the rates do not span a range.
func rateGlyphs(s series.Series, base draw.GlyphStyle) func(int) draw.GlyphStyle {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, pt := range s.Points {
		if !finite(pt.RequestRate) {
			continue
		}
		lo = math.Min(lo, pt.RequestRate)
		hi = math.Max(hi, pt.RequestRate)
	}
	if !(lo < hi) {
		return nil
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(lo)
	cm.SetMax(hi)
	return func(i int) draw.GlyphStyle {
		style := base
		if c, err := cm.At(s.Points[i].RequestRate); err == nil {
			style.Color = c
		}
		return style
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
