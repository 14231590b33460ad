package models

import "github.com/shopspring/decimal"

// Report holds every computed section of the listing analysis, in page order.
type Report struct {
	Preview            Preview
	Shape              Shape
	CategoryShare      []LabelCount
	AvgPriceByCategory []LabelValue
	PriceStats         Describe
	PriceBox           BoxSummary
	PriceWeight        PriceWeight
	TopDiscounts       []DiscountRow
	BrandDiscounts     []LabelValue
	BrandShare         BrandShare
}

// Preview is the first rows of the source table, all columns.
type Preview struct {
	Columns []string
	Rows    [][]string
}

// Shape describes the dimensions of the source table.
type Shape struct {
	Rows    int
	Columns int
	Names   []string
}

// LabelCount is a group label with its row count and share of the counted rows.
type LabelCount struct {
	Label   string
	Count   int
	Percent float64
}

// LabelValue is a group label with an aggregated value.
type LabelValue struct {
	Label string
	Value float64
}

// Describe is the count/mean/std/min/quartiles/max summary of a numeric column.
type Describe struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// BoxSummary holds the geometry of a box plot: quartiles, whisker ends at the
// most extreme values within 1.5 IQR of the box, and the points beyond them.
type BoxSummary struct {
	Count        int
	Q1           float64
	Median       float64
	Q3           float64
	LowerWhisker float64
	UpperWhisker float64
	Outliers     []float64
}

// Point is one scatter point.
type Point struct {
	X float64
	Y float64
}

// PriceWeight is the weight (x) against current price (y) scatter and its
// Pearson correlation. Correlation is NaN when fewer than two points exist
// or either axis has no variance.
type PriceWeight struct {
	Points      []Point
	Correlation float64
}

// DiscountRow is one entry of the discount ranking.
type DiscountRow struct {
	Brand         string
	Name          string
	OriginalPrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	Discount      decimal.Decimal
}

// BrandShare is the top brands by number of listings. LeaderPercent is the
// leading brand's share of all rows in the table.
type BrandShare struct {
	Top           []LabelCount
	TotalRows     int
	Leader        string
	LeaderPercent float64
}
