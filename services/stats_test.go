package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantileInterpolates(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, quantile(sorted, tt.q), 1e-12, "q=%v", tt.q)
	}
	assert.True(t, math.IsNaN(quantile(nil, 0.5)))
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.9))
}

func TestDescribe(t *testing.T) {
	d := describe([]float64{2499, 1999, 3099, 4599, 2999})

	assert.Equal(t, 5, d.Count)
	assert.InDelta(t, 3039, d.Mean, 1e-9)
	assert.Equal(t, 1999.0, d.Min)
	assert.Equal(t, 2499.0, d.Q25)
	assert.Equal(t, 2999.0, d.Median)
	assert.Equal(t, 3099.0, d.Q75)
	assert.Equal(t, 4599.0, d.Max)
	// sample standard deviation
	assert.InDelta(t, 976.2171889, d.Std, 1e-6)
}

func TestDescribeSmallInputs(t *testing.T) {
	one := describe([]float64{100})
	assert.Equal(t, 1, one.Count)
	assert.Equal(t, 100.0, one.Mean)
	assert.True(t, math.IsNaN(one.Std))

	empty := describe(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
}

func TestBoxSummaryOutliers(t *testing.T) {
	b := boxSummary([]float64{10, 11, 12, 13, 14, 100})

	assert.Equal(t, 6, b.Count)
	assert.InDelta(t, 11.25, b.Q1, 1e-12)
	assert.InDelta(t, 12.5, b.Median, 1e-12)
	assert.InDelta(t, 13.75, b.Q3, 1e-12)
	assert.Equal(t, 10.0, b.LowerWhisker)
	assert.Equal(t, 14.0, b.UpperWhisker)
	assert.Equal(t, []float64{100}, b.Outliers)
}

func TestBoxSummaryConstant(t *testing.T) {
	b := boxSummary([]float64{5, 5, 5})
	assert.Equal(t, 5.0, b.LowerWhisker)
	assert.Equal(t, 5.0, b.UpperWhisker)
	assert.Empty(t, b.Outliers)
}

func TestPearson(t *testing.T) {
	xs := []float64{210, 245, 260, 300, 330}
	linear := make([]float64, len(xs))
	inverse := make([]float64, len(xs))
	for i, x := range xs {
		linear[i] = 2*x + 5
		inverse[i] = -3*x + 1000
	}

	assert.InDelta(t, 1.0, pearson(xs, linear), 1e-12)
	assert.InDelta(t, -1.0, pearson(xs, inverse), 1e-12)

	r := pearson(xs, []float64{3, 1, 4, 1, 5})
	assert.GreaterOrEqual(t, r, -1.0)
	assert.LessOrEqual(t, r, 1.0)

	assert.True(t, math.IsNaN(pearson([]float64{1}, []float64{2})))
	assert.True(t, math.IsNaN(pearson([]float64{1, 2, 3}, []float64{4, 4, 4})))
}
