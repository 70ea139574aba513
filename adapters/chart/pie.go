package chart

import (
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"

	"linedash/internal/pipeline"
)

// renderPie labels each slice with its category and percentage share.
func renderPie(w io.Writer, spec Spec, width, height int) error {
	dist, err := pipeline.Describe(spec.Summary)
	if err != nil {
		return err
	}

	values := make([]gochart.Value, len(spec.Summary))
	for i, c := range spec.Summary {
		values[i] = gochart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%s %s", c.Value, dist.Share(i)),
		}
	}

	pie := gochart.PieChart{
		Title:  spec.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Values: values,
	}
	return pie.Render(gochart.PNG, w)
}
