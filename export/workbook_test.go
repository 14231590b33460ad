package export

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shoe-report/models"
)

func testReport() *models.Report {
	return &models.Report{
		Preview: models.Preview{
			Columns: []string{"brand", "name"},
			Rows:    [][]string{{"Ocun", "Oxi"}, {"Scarpa", "Vapor V"}},
		},
		Shape:              models.Shape{Rows: 2, Columns: 2, Names: []string{"brand", "name"}},
		CategoryShare:      []models.LabelCount{{Label: "unisex", Count: 2, Percent: 100}},
		AvgPriceByCategory: []models.LabelValue{{Label: "B", Value: 300}, {Label: "A", Value: 150.4}},
		PriceStats:         models.Describe{Count: 1, Mean: 2799, Std: math.NaN(), Min: 2799, Q25: 2799, Median: 2799, Q75: 2799, Max: 2799},
		PriceWeight:        models.PriceWeight{Correlation: math.NaN()},
		TopDiscounts: []models.DiscountRow{{
			Brand: "Ocun", Name: "Oxi",
			OriginalPrice: decimal.RequireFromString("2999"),
			CurrentPrice:  decimal.RequireFromString("2799"),
			Discount:      decimal.RequireFromString("200"),
		}},
		BrandDiscounts: []models.LabelValue{{Label: "Ocun", Value: 200}},
		BrandShare: models.BrandShare{
			Top:       []models.LabelCount{{Label: "Ocun", Count: 1}, {Label: "Scarpa", Count: 1}},
			TotalRows: 2, Leader: "Ocun", LeaderPercent: 50,
		},
	}
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, testReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		SheetSummary, SheetPreview, SheetCategoryShare, SheetAvgPrice, SheetPriceStats,
		SheetPriceWeight, SheetTopDiscounts, SheetBrandDiscounts, SheetBrandShare,
	}, f.GetSheetList())

	rows, err := f.GetRows(SheetAvgPrice)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Category", "Average price"}, {"B", "300"}, {"A", "150"}}, rows)

	rows, err = f.GetRows(SheetTopDiscounts)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Ocun", "Oxi", "2999", "2799", "200"}, rows[1])

	rows, err = f.GetRows(SheetPriceStats)
	require.NoError(t, err)
	assert.Equal(t, []string{"std", "n/a"}, rows[3])

	v, err := f.GetCellValue(SheetSummary, "B4")
	require.NoError(t, err)
	assert.Equal(t, "n/a", v)

	rows, err = f.GetRows(SheetPreview)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"brand", "name"}, {"Ocun", "Oxi"}, {"Scarpa", "Vapor V"}}, rows)
}

func TestSaveWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, SaveWorkbook(path, testReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(SheetBrandShare, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Ocun", v)
}
