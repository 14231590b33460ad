package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"shoe-report/models"
)

// naValues are cell contents read as missing.
var naValues = map[string]struct{}{
	"": {}, "na": {}, "n/a": {}, "nan": {}, "null": {}, "none": {}, "<na>": {},
}

// CSVSource reads the listing table from a delimited file on every Load.
type CSVSource struct {
	Path string
}

// NewCSVSource returns a source reading path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Load reads and parses the whole file.
func (s *CSVSource) Load(_ context.Context) (*models.Table, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", s.Path, err)
	}
	return ParseCSV(bytes.NewReader(b))
}

// Close is a no-op; the file is not held open between loads.
func (s *CSVSource) Close() error { return nil }

// ParseCSV parses a listing table with a header row. Every column is kept
// for the preview; the known listing columns are parsed into Listings.
func ParseCSV(r io.Reader) (*models.Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csv: read: %w", err)
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})

	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, col := range models.RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("csv: %w: %s", ErrMissingColumn, col)
		}
	}

	table := &models.Table{Columns: header}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}

		row := make([]string, len(header))
		copy(row, rec)

		l, err := parseListing(row, index)
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		table.Records = append(table.Records, row)
		table.Listings = append(table.Listings, l)
	}
	return table, nil
}

func parseListing(row []string, index map[string]int) (*models.Listing, error) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok {
			return ""
		}
		v := strings.TrimSpace(row[i])
		if _, na := naValues[strings.ToLower(v)]; na {
			return ""
		}
		return v
	}

	l := &models.Listing{
		Brand:    cell(models.ColBrand),
		Name:     cell(models.ColName),
		Category: cell(models.ColCategory),
		URL:      cell(models.ColURL),
	}

	var err error
	if l.CurrentPrice, err = parseDecimalCell(models.ColCurrentPrice, cell(models.ColCurrentPrice)); err != nil {
		return nil, err
	}
	if l.OriginalPrice, err = parseDecimalCell(models.ColOriginalPrice, cell(models.ColOriginalPrice)); err != nil {
		return nil, err
	}
	if v := cell(models.ColWeightValue); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", models.ColWeightValue, v)
		}
		l.WeightValue = sql.NullFloat64{Float64: f, Valid: true}
	}
	return l, nil
}

func parseDecimalCell(col, v string) (decimal.NullDecimal, error) {
	if v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%s: invalid number %q", col, v)
	}
	return decimal.NewNullDecimal(d), nil
}
