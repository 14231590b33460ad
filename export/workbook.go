package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"shoe-report/models"
)

// Sheet names in workbook order.
const (
	SheetSummary        = "Summary"
	SheetPreview        = "Preview"
	SheetCategoryShare  = "Category share"
	SheetAvgPrice       = "Avg price by category"
	SheetPriceStats     = "Price statistics"
	SheetPriceWeight    = "Price vs weight"
	SheetTopDiscounts   = "Top discounts"
	SheetBrandDiscounts = "Brand discounts"
	SheetBrandShare     = "Brand share"
)

// ContentType is the MIME type of the written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheet struct {
	name string
	rows [][]interface{}
}

// WriteWorkbook writes every tabular section of r to an xlsx workbook, one
// sheet per section, header row first.
func WriteWorkbook(w io.Writer, r *models.Report) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to path.
func SaveWorkbook(path string, r *models.Report) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %q: %w", path, err)
	}
	return nil
}

func build(r *models.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, s := range sheets(r) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("export: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("export: new sheet %q: %w", s.name, err)
		}

		for n, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, n+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return nil, fmt.Errorf("export: %s row %d: %w", s.name, n+1, err)
			}
		}
	}
	return f, nil
}

func sheets(r *models.Report) []sheet {
	summary := sheet{name: SheetSummary, rows: [][]interface{}{
		{"Metric", "Value"},
		{"Rows", r.Shape.Rows},
		{"Columns", r.Shape.Columns},
		{"Price/weight correlation", number(r.PriceWeight.Correlation)},
		{"Largest brand", r.BrandShare.Leader},
		{"Largest brand share (%)", round(r.BrandShare.LeaderPercent, 1)},
	}}

	preview := sheet{name: SheetPreview, rows: [][]interface{}{stringRow(r.Preview.Columns)}}
	for _, row := range r.Preview.Rows {
		preview.rows = append(preview.rows, stringRow(row))
	}

	share := sheet{name: SheetCategoryShare, rows: [][]interface{}{{"Category", "Count", "Share (%)"}}}
	for _, c := range r.CategoryShare {
		share.rows = append(share.rows, []interface{}{c.Label, c.Count, round(c.Percent, 1)})
	}

	avg := sheet{name: SheetAvgPrice, rows: [][]interface{}{{"Category", "Average price"}}}
	for _, c := range r.AvgPriceByCategory {
		avg.rows = append(avg.rows, []interface{}{c.Label, round(c.Value, 0)})
	}

	d := r.PriceStats
	stats := sheet{name: SheetPriceStats, rows: [][]interface{}{
		{"Statistic", "current_price"},
		{"count", d.Count},
		{"mean", number(d.Mean)},
		{"std", number(d.Std)},
		{"min", number(d.Min)},
		{"25%", number(d.Q25)},
		{"50%", number(d.Median)},
		{"75%", number(d.Q75)},
		{"max", number(d.Max)},
	}}

	scatter := sheet{name: SheetPriceWeight, rows: [][]interface{}{{"weight_value", "current_price"}}}
	for _, p := range r.PriceWeight.Points {
		scatter.rows = append(scatter.rows, []interface{}{p.X, p.Y})
	}

	top := sheet{name: SheetTopDiscounts, rows: [][]interface{}{
		{"brand", "name", "original_price", "current_price", "discount"},
	}}
	for _, t := range r.TopDiscounts {
		top.rows = append(top.rows, []interface{}{
			t.Brand, t.Name,
			t.OriginalPrice.InexactFloat64(), t.CurrentPrice.InexactFloat64(), t.Discount.InexactFloat64(),
		})
	}

	brands := sheet{name: SheetBrandDiscounts, rows: [][]interface{}{{"Brand", "Average discount"}}}
	for _, b := range r.BrandDiscounts {
		brands.rows = append(brands.rows, []interface{}{b.Label, round(b.Value, 2)})
	}

	brandShare := sheet{name: SheetBrandShare, rows: [][]interface{}{{"Brand", "Models"}}}
	for _, b := range r.BrandShare.Top {
		brandShare.rows = append(brandShare.rows, []interface{}{b.Label, b.Count})
	}

	return []sheet{summary, preview, share, avg, stats, scatter, top, brands, brandShare}
}

// number keeps NaN out of the workbook; the cell is left as text instead.
func number(v float64) interface{} {
	if math.IsNaN(v) {
		return "n/a"
	}
	return v
}

func round(v float64, places int) interface{} {
	if math.IsNaN(v) {
		return "n/a"
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func stringRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
