package dashboard

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"shoe-report/models"
)

var (
	// ErrNoData is returned when a chart has nothing to draw.
	ErrNoData = errors.New("dashboard: no data to chart")
	// ErrUnknownChart is returned by RenderChart for a name it does not know.
	ErrUnknownChart = errors.New("dashboard: unknown chart")
)

// Chart names served at /charts/:name.
const (
	ChartCategoryShare = "category-share"
	ChartPriceBox      = "price-box"
	ChartPriceWeight   = "price-weight"
	ChartBrandDiscount = "brand-discount"
)

// ChartNames lists every chart in page order.
var ChartNames = []string{ChartCategoryShare, ChartPriceBox, ChartPriceWeight, ChartBrandDiscount}

var (
	colorBoxStroke = drawing.ColorFromHex("1f4e9c")
	colorMedian    = drawing.ColorFromHex("d62728")
	colorScatter   = drawing.ColorFromHex("1f77b4")
	colorBar       = drawing.ColorFromHex("008080")
)

// RenderChart writes the named chart of r as SVG.
func RenderChart(w io.Writer, name string, r *models.Report, currency string) error {
	switch name {
	case ChartCategoryShare:
		return CategoryPie(w, r.CategoryShare)
	case ChartPriceBox:
		return PriceBoxPlot(w, r.PriceBox, currency)
	case ChartPriceWeight:
		return PriceWeightScatter(w, r.PriceWeight, currency)
	case ChartBrandDiscount:
		return BrandDiscountBar(w, r.BrandDiscounts, currency)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
}

// CategoryPie draws the category share as a pie with one-decimal percentage labels.
func CategoryPie(w io.Writer, share []models.LabelCount) error {
	if len(share) == 0 {
		return ErrNoData
	}

	values := make([]chart.Value, 0, len(share))
	for _, c := range share {
		values = append(values, chart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%s %.1f%%", c.Label, c.Percent),
		})
	}

	pie := chart.PieChart{
		Width:  480,
		Height: 480,
		Values: values,
	}
	return pie.Render(chart.SVG, w)
}

// BrandDiscountBar draws the mean discount per brand as vertical bars.
func BrandDiscountBar(w io.Writer, brands []models.LabelValue, currency string) error {
	if len(brands) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(brands))
	lo, hi := 0.0, 0.0
	for _, b := range brands {
		bars = append(bars, chart.Value{
			Value: b.Value,
			Label: b.Label,
			Style: chart.Style{FillColor: colorBar, StrokeColor: colorBar},
		})
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if hi == lo {
		hi = lo + 1
	}

	bc := chart.BarChart{
		Title:        "Average discount by brand (" + currency + ")",
		Background:   chart.Style{Padding: chart.Box{Top: 40, Bottom: 40}},
		Width:        720,
		Height:       420,
		BarWidth:     48,
		UseBaseValue: true,
		BaseValue:    0,
		XAxis:        chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi * 1.05},
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

// PriceWeightScatter draws weight (x) against current price (y) as dots.
func PriceWeightScatter(w io.Writer, pw models.PriceWeight, currency string) error {
	if len(pw.Points) == 0 {
		return ErrNoData
	}

	xs := make([]float64, len(pw.Points))
	ys := make([]float64, len(pw.Points))
	for i, p := range pw.Points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	c := chart.Chart{
		Title:      "Price against weight",
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16}},
		Width:      720,
		Height:     420,
		XAxis:      chart.XAxis{Name: "Weight (g)", Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: "Price (" + currency + ")", Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "listings",
				XValues: xs,
				YValues: ys,
				Style:   pointStyle(colorScatter),
			},
		},
	}
	return c.Render(chart.SVG, w)
}

// PriceBoxPlot draws a horizontal box plot: box from Q1 to Q3, the median in
// red, whiskers with caps and outliers as dots.
func PriceBoxPlot(w io.Writer, box models.BoxSummary, currency string) error {
	if box.Count == 0 {
		return ErrNoData
	}

	const (
		bottom = 0.3
		middle = 0.5
		top    = 0.7
		capLo  = 0.4
		capHi  = 0.6
	)
	line := func(name string, xs, ys []float64, style chart.Style) chart.ContinuousSeries {
		return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: style}
	}
	boxStyle := chart.Style{StrokeColor: colorBoxStroke, StrokeWidth: 1.5}

	series := []chart.Series{
		line("box",
			[]float64{box.Q1, box.Q3, box.Q3, box.Q1, box.Q1},
			[]float64{bottom, bottom, top, top, bottom}, boxStyle),
		line("median",
			[]float64{box.Median, box.Median},
			[]float64{bottom, top}, chart.Style{StrokeColor: colorMedian, StrokeWidth: 2}),
		line("lower whisker",
			[]float64{box.LowerWhisker, box.Q1},
			[]float64{middle, middle}, boxStyle),
		line("upper whisker",
			[]float64{box.Q3, box.UpperWhisker},
			[]float64{middle, middle}, boxStyle),
		line("lower cap",
			[]float64{box.LowerWhisker, box.LowerWhisker},
			[]float64{capLo, capHi}, boxStyle),
		line("upper cap",
			[]float64{box.UpperWhisker, box.UpperWhisker},
			[]float64{capLo, capHi}, boxStyle),
	}
	extent := []float64{box.LowerWhisker, box.UpperWhisker}
	if len(box.Outliers) > 0 {
		ys := make([]float64, len(box.Outliers))
		for i := range ys {
			ys[i] = middle
		}
		series = append(series, line("outliers", box.Outliers, ys, pointStyle(colorBoxStroke)))
		extent = append(extent, box.Outliers...)
	}

	c := chart.Chart{
		Title:      "Price distribution",
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16}},
		Width:      720,
		Height:     260,
		XAxis:      chart.XAxis{Name: "Price (" + currency + ")", Range: paddedRange(extent)},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	}
	return c.Render(chart.SVG, w)
}

// pointStyle renders points only, without connecting lines.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

// paddedRange spans values with a 5% margin on both sides. A single distinct
// value gets a unit margin so the axis never collapses.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
