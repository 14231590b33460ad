package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoe-report/models"
)

const sampleCSV = "\ufeffcategory,current_price,original_price,weight_value,brand,name,sizes\n" +
	"unisex,4299.0,4990.0,245.0,La Sportiva,Solution,\"36,37\"\n" +
	"dámské,3999.0,4990.0,,La Sportiva,Miura VS,38\n" +
	",1299,1499,NaN,Ocun,Striker QC,30\n"

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"category", "current_price", "original_price", "weight_value", "brand", "name", "sizes"}, table.Columns)
	require.Equal(t, 3, table.Len())
	require.Len(t, table.Records, 3)
	assert.Equal(t, "36,37", table.Records[0][6], "extra columns are kept for the preview")

	first := table.Listings[0]
	assert.Equal(t, "La Sportiva", first.Brand)
	assert.True(t, first.CurrentPrice.Decimal.Equal(decimal.NewFromInt(4299)))
	assert.True(t, first.WeightValue.Valid)
	assert.Equal(t, 245.0, first.WeightValue.Float64)

	assert.False(t, table.Listings[1].WeightValue.Valid)
	assert.False(t, table.Listings[2].HasCategory())
	assert.False(t, table.Listings[2].WeightValue.Valid, "NaN is read as missing")
}

func TestParseCSVMissingRequiredColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("category,current_price,brand,name\nunisex,1,a,b\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "original_price")
}

func TestParseCSVMissingOptionalColumns(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("brand,name,current_price,original_price\nOcun,Oxi,2799,2999\n"))
	require.NoError(t, err)
	assert.False(t, table.Listings[0].HasCategory())
	assert.False(t, table.Listings[0].WeightValue.Valid)
}

func TestParseCSVMalformedNumber(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("brand,name,current_price,original_price\nOcun,Oxi,cheap,2999\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "current_price")
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background())
	assert.Error(t, err)
}

func TestCSVWriterOutputLoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "products.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)

	listings := []*models.Listing{
		{Brand: "Scarpa", Name: "Vapor V", Category: "unisex",
			CurrentPrice:  decimal.NewNullDecimal(decimal.RequireFromString("3590")),
			OriginalPrice: decimal.NewNullDecimal(decimal.RequireFromString("3990")),
			URL:           "https://www.4camping.cz/p/scarpa-vapor-v"},
	}
	require.NoError(t, w.Write(context.Background(), listings))
	require.NoError(t, w.Close())

	table, err := NewCSVSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ListingColumns, table.Columns)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Vapor V", table.Listings[0].Name)
	assert.False(t, table.Listings[0].WeightValue.Valid)
}
