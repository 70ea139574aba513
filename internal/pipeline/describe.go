package pipeline

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	gstat "gonum.org/v1/gonum/stat"
)

// Distribution summarizes how a Summary's rows spread over its categories.
type Distribution struct {
	Categories int       `json:"categories"`
	Total      int       `json:"total"`
	Mean       float64   `json:"mean"`
	Median     float64   `json:"median"`
	Max        int       `json:"max"`
	Shares     []float64 `json:"shares"` // percent per category, same order as the summary
	// Concentration is the Herfindahl index of the shares: 1/Categories when
	// even, 1 when one category holds every row.
	Concentration float64 `json:"concentration"`
	Entropy       float64 `json:"entropy"` // natural-log Shannon entropy of the shares
}

// Describe computes the distribution of s. An empty summary yields the zero
// Distribution.
func Describe(s Summary) (Distribution, error) {
	if len(s) == 0 {
		return Distribution{Shares: []float64{}}, nil
	}

	data := make(stats.Float64Data, len(s))
	for i, c := range s {
		data[i] = float64(c.Count)
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return Distribution{}, fmt.Errorf("mean of %d categories: %w", len(s), err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return Distribution{}, fmt.Errorf("median of %d categories: %w", len(s), err)
	}
	max, err := stats.Max(data)
	if err != nil {
		return Distribution{}, fmt.Errorf("max of %d categories: %w", len(s), err)
	}

	total := floats.Sum(data)
	d := Distribution{
		Categories: len(s),
		Total:      int(total),
		Mean:       mean,
		Median:     median,
		Max:        int(max),
		Shares:     make([]float64, len(s)),
	}
	if total == 0 {
		return d, nil
	}

	p := make([]float64, len(data))
	copy(p, data)
	floats.Scale(1/total, p)

	d.Concentration = floats.Dot(p, p)
	d.Entropy = gstat.Entropy(p)
	for i, share := range p {
		d.Shares[i] = math.Round(share*10000) / 100
	}
	return d, nil
}

// Share returns the percentage label of category i, e.g. "40.0%".
func (d Distribution) Share(i int) string {
	if i < 0 || i >= len(d.Shares) {
		return ""
	}
	return fmt.Sprintf("%.1f%%", d.Shares[i])
}
