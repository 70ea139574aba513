// Package chart renders dashboard summaries as PNG images: pies with go-chart,
// horizontal bars with gonum/plot.
package chart

import (
	"fmt"
	"io"
	"log"
	"time"

	"linedash/internal/errors"
	"linedash/internal/pipeline"
)

// Kind selects the chart type.
type Kind string

const (
	KindPie Kind = "pie"
	KindBar Kind = "bar"
)

// Spec is one chart to draw.
type Spec struct {
	Title   string
	Kind    Kind
	Summary pipeline.Summary
}

// Renderer draws charts at a fixed size in pixels.
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a renderer. Non-positive sizes fall back to 800x500.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 500
	}
	return &Renderer{width: width, height: height}
}

// Render writes spec as a PNG to w.
func (r *Renderer) Render(w io.Writer, spec Spec) error {
	if len(spec.Summary) == 0 {
		return errors.InvalidInput(fmt.Sprintf("chart %q has no data", spec.Title))
	}

	start := time.Now()
	var err error
	switch spec.Kind {
	case KindPie:
		err = renderPie(w, spec, r.width, r.height)
	case KindBar:
		err = renderBar(w, spec, r.width, r.height)
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown chart kind %q", spec.Kind))
	}
	if err != nil {
		return errors.RenderError(spec.Title, err)
	}

	log.Printf("[Chart] %s %q rendered in %.2fms (%d categories)",
		spec.Kind, spec.Title, float64(time.Since(start).Nanoseconds())/1e6, len(spec.Summary))
	return nil
}
