package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	d, err := Describe(Summary{{"VIVO", 5}, {"CLARO", 3}, {"TIM", 2}})
	require.NoError(t, err)

	assert.Equal(t, 3, d.Categories)
	assert.Equal(t, 10, d.Total)
	assert.Equal(t, 5, d.Max)
	assert.InDelta(t, 10.0/3, d.Mean, 1e-9)
	assert.InDelta(t, 3.0, d.Median, 1e-9)
	assert.Equal(t, []float64{50, 30, 20}, d.Shares)
	assert.InDelta(t, 0.25+0.09+0.04, d.Concentration, 1e-9)
	expectedEntropy := -(0.5*math.Log(0.5) + 0.3*math.Log(0.3) + 0.2*math.Log(0.2))
	assert.InDelta(t, expectedEntropy, d.Entropy, 1e-9)
	assert.Equal(t, "50.0%", d.Share(0))
	assert.Equal(t, "", d.Share(3))
}

func TestDescribeSingleCategory(t *testing.T) {
	d, err := Describe(Summary{{"Sem número", 4}})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, d.Concentration, 1e-9)
	assert.InDelta(t, 0.0, d.Entropy, 1e-9)
	assert.Equal(t, []float64{100}, d.Shares)
}

func TestDescribeEmpty(t *testing.T) {
	d, err := Describe(Summary{})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Total)
	assert.Empty(t, d.Shares)
}
