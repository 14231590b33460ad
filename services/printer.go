package services

import (
	"fmt"
	"math"
	"strings"

	"shoe-report/models"
)

const (
	ansiReset  = "\033[0m"
	ansiTitle  = "\033[1;35m"
	ansiHead   = "\033[1;33m"
	ansiBold   = "\033[1m"
	ansiGreen  = "\033[1;32m"
	ansiRed    = "\033[1;31m"
	barMaxCols = 40
)

// Print writes the report to the terminal, one block per section.
func (s *ReportService) Print(r *models.Report) {
	w := s.out
	sep := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	heading := func(title string) {
		fmt.Fprintf(w, "%s  %s%s\n", ansiHead, title, ansiReset)
		fmt.Fprintf(w, "  %s\n", thin)
	}

	fmt.Fprintf(w, "\n%s%s%s\n", ansiTitle, sep, ansiReset)
	fmt.Fprintf(w, "%s  CLIMBING SHOE ANALYSIS%s\n", ansiTitle, ansiReset)
	fmt.Fprintf(w, "%s%s%s\n\n", ansiTitle, sep, ansiReset)

	heading("Data preview")
	fmt.Fprintf(w, "  %s\n", strings.Join(r.Preview.Columns, " | "))
	for _, row := range r.Preview.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = truncate(c, 24)
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(cells, " | "))
	}
	fmt.Fprintln(w)

	heading("Basic information")
	fmt.Fprintf(w, "  Products   : %s%d%s\n", ansiBold, r.Shape.Rows, ansiReset)
	fmt.Fprintf(w, "  Attributes : %s%d%s\n", ansiBold, r.Shape.Columns, ansiReset)
	fmt.Fprintf(w, "  Columns    : %s\n\n", strings.Join(r.Shape.Names, ", "))

	heading("Category share")
	if len(r.CategoryShare) == 0 {
		fmt.Fprintf(w, "  No category data\n")
	}
	for _, c := range r.CategoryShare {
		fmt.Fprintf(w, "  %-24s %s %5.1f%% (%d)\n", truncate(c.Label, 22), bar(c.Percent, 100), c.Percent, c.Count)
	}
	fmt.Fprintln(w)

	heading("Average price by category")
	if len(r.AvgPriceByCategory) == 0 {
		fmt.Fprintf(w, "  No category price data\n")
	}
	for _, c := range r.AvgPriceByCategory {
		fmt.Fprintf(w, "  %-24s %s%8.0f%s\n", truncate(c.Label, 22), ansiGreen, c.Value, ansiReset)
	}
	fmt.Fprintln(w)

	heading("Price statistics")
	ps := r.PriceStats
	fmt.Fprintf(w, "  count %d | mean %s | std %s | min %s\n",
		ps.Count, num(ps.Mean), num(ps.Std), num(ps.Min))
	fmt.Fprintf(w, "  25%% %s | 50%% %s | 75%% %s | max %s\n\n",
		num(ps.Q25), num(ps.Median), num(ps.Q75), num(ps.Max))

	heading("Price distribution")
	if r.PriceBox.Count == 0 {
		fmt.Fprintf(w, "  No price data available\n")
	} else {
		b := r.PriceBox
		fmt.Fprintf(w, "  whiskers %s – %s | box %s – %s | median %s%s%s | outliers %d\n",
			num(b.LowerWhisker), num(b.UpperWhisker), num(b.Q1), num(b.Q3),
			ansiRed, num(b.Median), ansiReset, len(b.Outliers))
	}
	fmt.Fprintln(w)

	heading("Price vs weight")
	fmt.Fprintf(w, "  Points      : %d\n", len(r.PriceWeight.Points))
	fmt.Fprintf(w, "  Correlation : %s%s%s\n\n", ansiBold, corr(r.PriceWeight.Correlation), ansiReset)

	heading("Largest discounts")
	if len(r.TopDiscounts) == 0 {
		fmt.Fprintf(w, "  No discount data\n")
	}
	for i, d := range r.TopDiscounts {
		fmt.Fprintf(w, "  %s%2d.%s %-36s %8s → %8s  %s-%s%s\n",
			ansiBold, i+1, ansiReset, truncate(d.Brand+" "+d.Name, 34),
			d.OriginalPrice.StringFixed(0), d.CurrentPrice.StringFixed(0),
			ansiRed, d.Discount.StringFixed(0), ansiReset)
	}
	fmt.Fprintln(w)

	heading("Brands with the largest average discount")
	maxDiscount := 0.0
	for _, b := range r.BrandDiscounts {
		maxDiscount = math.Max(maxDiscount, b.Value)
	}
	for _, b := range r.BrandDiscounts {
		fmt.Fprintf(w, "  %-24s %s %8.0f\n", truncate(b.Label, 22), bar(b.Value, maxDiscount), b.Value)
	}
	fmt.Fprintln(w)

	heading("Brand share")
	maxCount := 0.0
	for _, b := range r.BrandShare.Top {
		maxCount = math.Max(maxCount, float64(b.Count))
	}
	for _, b := range r.BrandShare.Top {
		fmt.Fprintf(w, "  %-24s %s (%d)\n", truncate(b.Label, 22), bar(float64(b.Count), maxCount), b.Count)
	}
	if r.BrandShare.Leader != "" {
		fmt.Fprintf(w, "\n  Largest share: %s%s%s with %s%.1f%%%s of all listings\n",
			ansiBold, r.BrandShare.Leader, ansiReset, ansiGreen, r.BrandShare.LeaderPercent, ansiReset)
	}

	fmt.Fprintf(w, "\n%s%s%s\n\n", ansiTitle, sep, ansiReset)
}

func bar(value, top float64) string {
	if top <= 0 || value <= 0 {
		return ""
	}
	n := int(math.Round(value / top * barMaxCols))
	return strings.Repeat("█", n)
}

func num(f float64) string {
	if math.IsNaN(f) {
		return "n/a"
	}
	return fmt.Sprintf("%.0f", f)
}

func corr(f float64) string {
	if math.IsNaN(f) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", f)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
