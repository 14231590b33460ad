package services

import (
	"io"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"shoe-report/models"
	"shoe-report/utils"
)

const (
	previewRows = 5
	topN        = 10
)

// ReportService computes the listing analysis report and prints it to a terminal.
type ReportService struct {
	logger *utils.Logger
	out    io.Writer
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger, out: os.Stdout}
}

// SetOutput redirects Print.
func (s *ReportService) SetOutput(w io.Writer) {
	s.out = w
}

// Generate computes every report section from t. Sections read the table
// independently; the two discount sections share one discounted view that is
// derived before either of them runs.
func (s *ReportService) Generate(t *models.Table) *models.Report {
	r := &models.Report{
		Preview: models.Preview{
			Columns: t.Columns,
			Rows:    t.Head(previewRows),
		},
		Shape: models.Shape{
			Rows:    t.Len(),
			Columns: len(t.Columns),
			Names:   t.Columns,
		},
		CategoryShare:      categoryShare(t),
		AvgPriceByCategory: avgPriceByCategory(t),
		PriceStats:         describe(currentPrices(t)),
		PriceBox:           boxSummary(currentPrices(t)),
		PriceWeight:        priceWeight(t),
	}

	discounted := models.WithDiscounts(t)
	r.TopDiscounts = topDiscounts(discounted, topN)
	r.BrandDiscounts = brandDiscounts(discounted, topN)
	r.BrandShare = brandShare(t, topN)

	s.logger.Debug("[report] %d rows, %d categories, %d discounted rows, correlation %.3f",
		r.Shape.Rows, len(r.CategoryShare), len(r.TopDiscounts), r.PriceWeight.Correlation)
	return r
}

func currentPrices(t *models.Table) []float64 {
	out := make([]float64, 0, t.Len())
	for _, l := range t.Listings {
		if l.CurrentPrice.Valid {
			out = append(out, l.CurrentPrice.Decimal.InexactFloat64())
		}
	}
	return out
}

func categoryShare(t *models.Table) []models.LabelCount {
	var labels []string
	for _, l := range t.Listings {
		if l.HasCategory() {
			labels = append(labels, l.Category)
		}
	}
	counts := countBy(labels)
	for i := range counts {
		counts[i].Percent = percent(counts[i].Count, len(labels))
	}
	return counts
}

func avgPriceByCategory(t *models.Table) []models.LabelValue {
	var labels []string
	var values []decimal.Decimal
	for _, l := range t.Listings {
		if l.HasCategory() && l.CurrentPrice.Valid {
			labels = append(labels, l.Category)
			values = append(values, l.CurrentPrice.Decimal)
		}
	}
	return meanBy(labels, values)
}

func priceWeight(t *models.Table) models.PriceWeight {
	var pw models.PriceWeight
	xs := make([]float64, 0, t.Len())
	ys := make([]float64, 0, t.Len())
	for _, l := range t.Listings {
		if !l.CurrentPrice.Valid || !l.WeightValue.Valid {
			continue
		}
		x, y := l.WeightValue.Float64, l.CurrentPrice.Decimal.InexactFloat64()
		pw.Points = append(pw.Points, models.Point{X: x, Y: y})
		xs = append(xs, x)
		ys = append(ys, y)
	}
	pw.Correlation = pearson(xs, ys)
	return pw
}

func topDiscounts(rows []models.DiscountedListing, n int) []models.DiscountRow {
	var ranked []models.DiscountedListing
	for _, r := range rows {
		if r.Discount.Valid {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Discount.Decimal.GreaterThan(ranked[j].Discount.Decimal)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]models.DiscountRow, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, models.DiscountRow{
			Brand:         r.Brand,
			Name:          r.Name,
			OriginalPrice: r.OriginalPrice.Decimal,
			CurrentPrice:  r.CurrentPrice.Decimal,
			Discount:      r.Discount.Decimal,
		})
	}
	return out
}

func brandDiscounts(rows []models.DiscountedListing, n int) []models.LabelValue {
	var labels []string
	var values []decimal.Decimal
	for _, r := range rows {
		if r.HasBrand() && r.Discount.Valid {
			labels = append(labels, r.Brand)
			values = append(values, r.Discount.Decimal)
		}
	}
	means := meanBy(labels, values)
	if len(means) > n {
		means = means[:n]
	}
	return means
}

func brandShare(t *models.Table, n int) models.BrandShare {
	var labels []string
	for _, l := range t.Listings {
		if l.HasBrand() {
			labels = append(labels, l.Brand)
		}
	}
	counts := countBy(labels)
	for i := range counts {
		counts[i].Percent = percent(counts[i].Count, t.Len())
	}
	if len(counts) > n {
		counts = counts[:n]
	}

	bs := models.BrandShare{Top: counts, TotalRows: t.Len()}
	if len(counts) > 0 {
		bs.Leader = counts[0].Label
		bs.LeaderPercent = counts[0].Percent
	}
	return bs
}

// countBy counts occurrences per label, most frequent first. Labels with
// equal counts keep the order in which they first appeared.
func countBy(labels []string) []models.LabelCount {
	index := make(map[string]int)
	var out []models.LabelCount
	for _, label := range labels {
		i, ok := index[label]
		if !ok {
			i = len(out)
			index[label] = i
			out = append(out, models.LabelCount{Label: label})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// meanBy averages values per label, highest mean first, with ties in order
// of first appearance. Sums are exact; only the final mean is converted.
func meanBy(labels []string, values []decimal.Decimal) []models.LabelValue {
	type acc struct {
		label string
		sum   decimal.Decimal
		n     int64
	}
	index := make(map[string]int)
	var groups []acc
	for k, label := range labels {
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, acc{label: label})
		}
		groups[i].sum = groups[i].sum.Add(values[k])
		groups[i].n++
	}

	out := make([]models.LabelValue, 0, len(groups))
	for _, g := range groups {
		mean := g.sum.Div(decimal.NewFromInt(g.n))
		out = append(out, models.LabelValue{Label: g.label, Value: mean.InexactFloat64()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// percent returns part/total*100, multiplying first so whole-number shares stay exact.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
