package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantileInterpolates(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.Equal(t, 1.75, Quantile(values, 0.25))
	assert.Equal(t, 2.5, Quantile(values, 0.5))
	assert.Equal(t, 3.25, Quantile(values, 0.75))
}

func TestQuantileExactOrderStatistics(t *testing.T) {
	values := []float64{5, 1, 3, 2, 4} // unsorted on purpose

	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 3.0, Quantile(values, 0.5))
	assert.Equal(t, 5.0, Quantile(values, 1))
}

func TestQuantileEdgeCases(t *testing.T) {
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.99))
	assert.Equal(t, 2.0, Quantile([]float64{2, 2, 2}, 0.5))
}

func TestQuantileDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Quantile(values, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.Equal(t, 8, s.Count)
	assert.Equal(t, 5.0, s.Mean)
	assert.InDelta(t, 2.138, s.Std, 1e-3)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.Equal(t, 4.5, s.Median)
}

func TestDescribeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Describe(nil))
}

func TestDescribeSingleValue(t *testing.T) {
	s := Describe([]float64{3})

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 3.0, s.Mean)
	assert.Zero(t, s.Std)
	assert.Equal(t, 3.0, s.Median)
}
