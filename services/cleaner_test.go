package services

import (
	"testing"
	"time"

	"shoe-report/models"
	"shoe-report/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func TestCleanerParsePrice(t *testing.T) {
	c := NewCleaner(newTestLogger())

	tests := []struct {
		raw   string
		want  string
		valid bool
	}{
		{"3 099 Kč", "3099", true},
		{"3\u00a0099\u00a0Kč", "3099", true},
		{"1 299,90 Kč", "1299.9", true},
		{"od 2.499 Kč", "2499", true},
		{"1.299,90", "1299.9", true},
		{"4299.50", "4299.5", true},
		{"12 990 Kč", "12990", true},
		{"", "", false},
		{"Vyprodáno", "", false},
	}

	for _, tt := range tests {
		got := c.parsePrice(tt.raw)
		if got.Valid != tt.valid {
			t.Errorf("parsePrice(%q).Valid = %v; want %v", tt.raw, got.Valid, tt.valid)
			continue
		}
		if tt.valid && got.Decimal.String() != tt.want {
			t.Errorf("parsePrice(%q) = %s; want %s", tt.raw, got.Decimal.String(), tt.want)
		}
	}
}

func TestCleanerParseWeight(t *testing.T) {
	c := NewCleaner(newTestLogger())

	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"250 g", 250, true},
		{"Hmotnost: 245g (1/2 páru)", 245, true},
		{"0,45 kg", 450, true},
		{"0.5 KG", 500, true},
		{"", 0, false},
		{"neuvedeno", 0, false},
	}

	for _, tt := range tests {
		got := c.parseWeight(tt.raw)
		if got.Valid != tt.valid || got.Float64 != tt.want {
			t.Errorf("parseWeight(%q) = %v/%v; want %v/%v", tt.raw, got.Float64, got.Valid, tt.want, tt.valid)
		}
	}
}

func TestNormaliseCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Dámské", "dámské"},
		{" dámská  obuv ", "dámské"},
		{"Dětské, juniorské", "dětské"},
		{"UNISEX", "unisex"},
		{"", ""},
		{"Ostatní", "ostatní"},
	}
	for _, tt := range tests {
		if got := normaliseCategory(tt.raw); got != tt.want {
			t.Errorf("normaliseCategory(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerDropsMissingName(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Name: "  ", RawPrice: "1 000 Kč", URL: "https://www.4camping.cz/p/1", ScrapedAt: time.Now()},
		{Name: "Ocun Striker QC", Brand: "Ocun", RawPrice: "1 299 Kč", URL: "https://www.4camping.cz/p/2", ScrapedAt: time.Now()},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 listing after dropping empty name, got %d", len(cleaned))
	}
	if cleaned[0].Name != "Striker QC" {
		t.Errorf("brand prefix should be stripped from the name, got %q", cleaned[0].Name)
	}
	if !cleaned[0].OriginalPrice.Valid || !cleaned[0].OriginalPrice.Decimal.Equal(cleaned[0].CurrentPrice.Decimal) {
		t.Errorf("missing original price should default to the current price")
	}
}

func TestCleanerDeduplicatesURL(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Name: "A", URL: "https://www.4camping.cz/p/1", ScrapedAt: time.Now()},
		{Name: "B", URL: "https://www.4camping.cz/p/1?varianta=42", ScrapedAt: time.Now()},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Errorf("expected 1 listing after deduplication, got %d", len(cleaned))
	}
}
