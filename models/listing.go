package models

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the listing table.
const (
	ColCategory      = "category"
	ColCurrentPrice  = "current_price"
	ColOriginalPrice = "original_price"
	ColWeightValue   = "weight_value"
	ColBrand         = "brand"
	ColName          = "name"
	ColURL           = "url"
)

// ListingColumns is the column order written by the scraper and reported by
// SQL-backed tables.
var ListingColumns = []string{
	ColCategory, ColCurrentPrice, ColOriginalPrice, ColWeightValue, ColBrand, ColName, ColURL,
}

// RequiredColumns must be present in every input table.
var RequiredColumns = []string{ColCurrentPrice, ColOriginalPrice, ColBrand, ColName}

// RawListing holds unprocessed scraped text straight from a product page.
type RawListing struct {
	Brand        string
	Name         string
	Category     string
	RawPrice     string
	RawOrigPrice string
	RawWeight    string
	URL          string
	ScrapedAt    time.Time
}

// Listing is one climbing-shoe product row. Empty strings and invalid
// Null* values mean the cell was missing.
type Listing struct {
	ID            int64
	Brand         string
	Name          string
	Category      string
	CurrentPrice  decimal.NullDecimal
	OriginalPrice decimal.NullDecimal
	WeightValue   sql.NullFloat64
	URL           string
}

// HasCategory reports whether the category cell is present.
func (l *Listing) HasCategory() bool { return l.Category != "" }

// HasBrand reports whether the brand cell is present.
func (l *Listing) HasBrand() bool { return l.Brand != "" }

// Record formats l in ListingColumns order, with missing cells as "".
func (l *Listing) Record() []string {
	return []string{
		l.Category,
		formatNullDecimal(l.CurrentPrice),
		formatNullDecimal(l.OriginalPrice),
		formatNullFloat(l.WeightValue),
		l.Brand,
		l.Name,
		l.URL,
	}
}

func formatNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func formatNullFloat(f sql.NullFloat64) string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}

// Table is the loaded dataset: every source column with its raw cell text,
// plus the typed listing parsed from each row. Records[i] and Listings[i]
// describe the same row. A Table is never modified after loading.
type Table struct {
	Columns  []string
	Records  [][]string
	Listings []*Listing
}

// NewTableFromListings builds a Table whose raw cells are the formatted listing fields.
func NewTableFromListings(listings []*Listing) *Table {
	t := &Table{
		Columns:  append([]string(nil), ListingColumns...),
		Records:  make([][]string, 0, len(listings)),
		Listings: listings,
	}
	for _, l := range listings {
		t.Records = append(t.Records, l.Record())
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Listings) }

// Head returns up to n raw rows from the top of the table.
func (t *Table) Head(n int) [][]string {
	if n > len(t.Records) {
		n = len(t.Records)
	}
	return t.Records[:n]
}

// DiscountedListing pairs a listing with its derived discount. Discount is
// invalid when either price is missing.
type DiscountedListing struct {
	*Listing
	Discount decimal.NullDecimal
}

// WithDiscounts computes original_price - current_price for every row of t,
// in table order, without touching t.
func WithDiscounts(t *Table) []DiscountedListing {
	out := make([]DiscountedListing, len(t.Listings))
	for i, l := range t.Listings {
		out[i] = DiscountedListing{Listing: l}
		if l.CurrentPrice.Valid && l.OriginalPrice.Valid {
			out[i].Discount = decimal.NewNullDecimal(l.OriginalPrice.Decimal.Sub(l.CurrentPrice.Decimal))
		}
	}
	return out
}
