package services

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"shoe-report/models"
	"shoe-report/utils"
)

var (
	// priceRegexp captures a number with optional space/dot thousands groups
	// and a comma or dot decimal part, e.g. "3 099", "1.299,90", "4299.5".
	priceRegexp = regexp.MustCompile(`\d{1,3}(?:[ .]\d{3})+(?:,\d{1,2})?|\d+(?:[.,]\d{1,2})?`)
	// weightRegexp captures a weight with its unit, e.g. "250 g", "0,45 kg".
	weightRegexp = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|g)\b`)
)

// categoryAliases folds the grammatical variants of the shop's target-group labels.
var categoryAliases = map[string]string{
	"unisex":    "unisex",
	"pánské":    "pánské",
	"pánská":    "pánské",
	"dámské":    "dámské",
	"dámská":    "dámské",
	"dětské":    "dětské",
	"dětská":    "dětské",
	"juniorské": "dětské",
}

// Cleaner transforms RawListings into clean, validated Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean processes raw listings and returns cleaned records in input order.
// Listings without a name or with a URL already seen are dropped.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.Listing {
	seen := utils.NewURLSet()
	result := make([]*models.Listing, 0, len(raw))

	for _, r := range raw {
		name := normaliseText(r.Name)
		if name == "" {
			c.logger.Warn("[cleaner] Dropping listing without a name: %s", r.URL)
			continue
		}

		url := strings.TrimSpace(r.URL)
		if url != "" && !seen.Add(url) {
			c.logger.Debug("[cleaner] Duplicate URL skipped: %s", url)
			continue
		}

		brand := normaliseText(r.Brand)
		listing := &models.Listing{
			Brand:         brand,
			Name:          stripBrand(name, brand),
			Category:      normaliseCategory(r.Category),
			CurrentPrice:  c.parsePrice(r.RawPrice),
			OriginalPrice: c.parsePrice(r.RawOrigPrice),
			WeightValue:   c.parseWeight(r.RawWeight),
			URL:           url,
		}
		// Items that are not on sale show a single price.
		if !listing.OriginalPrice.Valid {
			listing.OriginalPrice = listing.CurrentPrice
		}

		result = append(result, listing)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parsePrice extracts a price in currency units.
// Examples:
//
//	"3 099 Kč"    → 3099
//	"1 299,90 Kč" → 1299.90
//	"od 2.499 Kč" → 2499
func (c *Cleaner) parsePrice(raw string) decimal.NullDecimal {
	raw = strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(raw)
	match := priceRegexp.FindString(raw)
	if match == "" {
		return decimal.NullDecimal{}
	}

	match = strings.ReplaceAll(match, " ", "")
	if strings.Contains(match, ",") {
		match = strings.ReplaceAll(match, ".", "")
		match = strings.Replace(match, ",", ".", 1)
	} else if strings.Count(match, ".") > 1 || isThousandsDot(match) {
		match = strings.ReplaceAll(match, ".", "")
	}

	d, err := decimal.NewFromString(match)
	if err != nil {
		c.logger.Debug("[cleaner] Unparseable price %q: %v", raw, err)
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// isThousandsDot reports whether a single dot separates a three-digit group ("2.499").
func isThousandsDot(s string) bool {
	i := strings.IndexByte(s, '.')
	return i > 0 && len(s)-i-1 == 3
}

// parseWeight extracts a weight and converts it to grams.
func (c *Cleaner) parseWeight(raw string) sql.NullFloat64 {
	raw = strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(raw)
	m := weightRegexp.FindStringSubmatch(raw)
	if len(m) < 3 {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil || v <= 0 {
		return sql.NullFloat64{}
	}
	if strings.EqualFold(m[2], "kg") {
		v *= 1000
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func normaliseCategory(s string) string {
	s = strings.ToLower(normaliseText(s))
	if s == "" {
		return ""
	}
	for _, word := range strings.Fields(s) {
		if cat, ok := categoryAliases[strings.Trim(word, ",.;")]; ok {
			return cat
		}
	}
	return s
}

// stripBrand removes a leading brand from the product name.
func stripBrand(name, brand string) string {
	if brand == "" || len(name) <= len(brand) {
		return name
	}
	if strings.EqualFold(name[:len(brand)], brand) && name[len(brand)] == ' ' {
		return strings.TrimSpace(name[len(brand):])
	}
	return name
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
