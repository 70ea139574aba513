package chart

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const barRowHeight = 28

// renderBar draws horizontal bars bottom-up in summary order, so an ascending
// TopN summary puts its largest category on top.
func renderBar(w io.Writer, spec Spec, width, height int) error {
	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Quantidade"
	p.X.Min = 0

	values := make(plotter.Values, len(spec.Summary))
	labels := make([]string, len(spec.Summary))
	for i, c := range spec.Summary {
		values[i] = float64(c.Count)
		labels[i] = c.Value
	}

	bars, err := plotter.NewBarChart(values, vg.Points(16))
	if err != nil {
		return fmt.Errorf("failed to build bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalY(labels...)

	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: v, Y: float64(i)}
		texts[i] = fmt.Sprintf(" %d", int(v))
	}
	counts, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return fmt.Errorf("failed to build labels: %w", err)
	}
	p.Add(counts)
	p.X.Max = values[maxIndex(values)] * 1.1

	if rows := len(values)*barRowHeight + 120; rows > height {
		height = rows
	}

	writer, err := p.WriterTo(vg.Points(float64(width)), vg.Points(float64(height)), "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	_, err = writer.WriteTo(w)
	return err
}

func maxIndex(values plotter.Values) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
