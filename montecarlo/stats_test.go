package montecarlo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/percolath/montecarlo"
)

func TestMean(t *testing.T) {
	_, err := montecarlo.Mean(nil)
	require.ErrorIs(t, err, montecarlo.ErrInvalidArgument)

	m, err := montecarlo.Mean([]float64{1, 2, 3, 6})
	require.NoError(t, err)
	assert.Equal(t, 3.0, m)
}

func TestSummarize(t *testing.T) {
	agg := montecarlo.Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 5.0, agg.Mean)
	assert.Equal(t, 2.0, agg.Min)
	assert.Equal(t, 9.0, agg.Max)
	assert.InDelta(t, math.Sqrt(32.0/7.0), agg.StdDev, 1e-12)
	assert.Equal(t, 8, agg.Trials)

	assert.Equal(t, montecarlo.Aggregate{}, montecarlo.Summarize(nil))
	one := montecarlo.Summarize([]float64{3})
	assert.Zero(t, one.StdDev)
}
