package services

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"shoe-report/models"
)

// whiskerReach is how far past the box, in IQRs, a whisker may extend.
const whiskerReach = 1.5

// quantile returns the q-th quantile of an ascending slice, interpolating
// linearly between the two closest ranks.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func sortedCopy(values []float64) []float64 {
	cp := append([]float64(nil), values...)
	sort.Float64s(cp)
	return cp
}

// describe summarises values. The standard deviation is the sample (n-1)
// estimate and is NaN for fewer than two values; everything else is NaN
// for an empty input.
func describe(values []float64) models.Describe {
	d := models.Describe{Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		d.Mean, d.Std, d.Min, d.Q25, d.Median, d.Q75, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d
	}

	sorted := sortedCopy(values)
	d.Mean = stat.Mean(sorted, nil)
	d.Std = math.NaN()
	if len(sorted) > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	d.Min = sorted[0]
	d.Q25 = quantile(sorted, 0.25)
	d.Median = quantile(sorted, 0.5)
	d.Q75 = quantile(sorted, 0.75)
	d.Max = sorted[len(sorted)-1]
	return d
}

// boxSummary computes box plot geometry with whiskers at the most extreme
// values inside [Q1 - 1.5 IQR, Q3 + 1.5 IQR].
func boxSummary(values []float64) models.BoxSummary {
	b := models.BoxSummary{Count: len(values)}
	if len(values) == 0 {
		return b
	}

	sorted := sortedCopy(values)
	b.Q1 = quantile(sorted, 0.25)
	b.Median = quantile(sorted, 0.5)
	b.Q3 = quantile(sorted, 0.75)

	iqr := b.Q3 - b.Q1
	loFence := b.Q1 - whiskerReach*iqr
	hiFence := b.Q3 + whiskerReach*iqr

	b.LowerWhisker = b.Q1
	b.UpperWhisker = b.Q3
	for _, v := range sorted {
		if v >= loFence {
			b.LowerWhisker = math.Min(v, b.Q1)
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= hiFence {
			b.UpperWhisker = math.Max(sorted[i], b.Q3)
			break
		}
	}
	for _, v := range sorted {
		if v < loFence || v > hiFence {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b
}

// pearson returns the Pearson correlation of xs and ys, clamped to [-1, 1].
// It is NaN for fewer than two pairs or a constant axis.
func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	return math.Max(-1, math.Min(1, r))
}
