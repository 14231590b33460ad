package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoe-report/models"
	"shoe-report/utils"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "listings.db"), utils.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func nd(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func TestSQLiteStoreWriteAndLoad(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	listings := []*models.Listing{
		{Category: "unisex", Brand: "La Sportiva", Name: "Solution", CurrentPrice: nd("4299"), OriginalPrice: nd("4990"),
			WeightValue: sql.NullFloat64{Float64: 245, Valid: true}, URL: "https://www.4camping.cz/p/solution"},
		{Brand: "Ocun", Name: "Striker QC", CurrentPrice: nd("1299.9"), OriginalPrice: nd("1499"),
			URL: "https://www.4camping.cz/p/striker"},
		{Brand: "Ocun", Name: "Striker QC duplicate", CurrentPrice: nd("1"), OriginalPrice: nd("1"),
			URL: "https://www.4camping.cz/p/striker"},
		{Brand: "Boreal", Name: "Joker", OriginalPrice: nd("1999")},
		{Brand: "Boreal", Name: "Ninja", OriginalPrice: nd("2199")},
	}
	require.NoError(t, s.Write(ctx, listings))

	table, err := s.Load(ctx)
	require.NoError(t, err)

	require.Equal(t, 4, table.Len(), "the repeated URL is skipped, missing URLs are not")
	assert.Equal(t, models.ListingColumns, table.Columns)

	first := table.Listings[0]
	assert.Equal(t, "unisex", first.Category)
	assert.True(t, first.CurrentPrice.Decimal.Equal(decimal.NewFromInt(4299)))
	assert.Equal(t, 245.0, first.WeightValue.Float64)

	second := table.Listings[1]
	assert.Equal(t, "Striker QC", second.Name)
	assert.False(t, second.HasCategory())
	assert.True(t, second.CurrentPrice.Decimal.Equal(decimal.RequireFromString("1299.9")))
	assert.False(t, second.WeightValue.Valid)

	assert.False(t, table.Listings[2].CurrentPrice.Valid)
	assert.Equal(t, "", table.Listings[2].URL)
}

func TestSQLiteStoreWriteReplaces(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, []*models.Listing{{Brand: "A", Name: "one", OriginalPrice: nd("1")}}))
	require.NoError(t, s.Write(ctx, []*models.Listing{{Brand: "B", Name: "two", OriginalPrice: nd("2")}}))

	listings, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "B", listings[0].Brand)
}

func TestInsertBatchPlaceholders(t *testing.T) {
	batch := []*models.Listing{{Name: "a"}, {Name: "b"}}

	pg := &SQLStore{dialect: postgresDialect}
	query, args := pg.insertBatch(batch)
	assert.Contains(t, query, "($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14)")
	assert.Len(t, args, 14)

	lite := &SQLStore{dialect: sqliteDialect}
	query, _ = lite.insertBatch(batch)
	assert.Equal(t, 14, strings.Count(query, "?"))
}
