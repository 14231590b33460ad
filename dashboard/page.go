package dashboard

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"shoe-report/models"
)

//go:embed templates/report.html
var templateFS embed.FS

const noDataText = "Not enough data for this chart."

type page struct {
	Title    string
	Intro    string
	Sections []section
}

type section struct {
	ID      string
	Title   string
	Intro   string
	Lines   []string
	Table   *table
	Chart   template.HTML
	Empty   string
	Bars    []shareBar
	Notes   []string
	Closing string
}

type table struct {
	Header []string
	Rows   [][]string
}

type shareBar struct {
	Label string
	Count int
	Width float64
}

// Renderer draws a report as a single HTML page with inline SVG charts.
type Renderer struct {
	tmpl     *template.Template
	printer  *message.Printer
	currency string
}

// NewRenderer parses the page template. Amounts are formatted with Czech
// digit grouping and suffixed with currency.
func NewRenderer(currency string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("dashboard: parse template: %w", err)
	}
	return &Renderer{
		tmpl:     tmpl,
		printer:  message.NewPrinter(language.Czech),
		currency: currency,
	}, nil
}

// Render writes the whole page for r. Nothing is written when any part fails.
func (p *Renderer) Render(w io.Writer, r *models.Report) error {
	data, err := p.page(r)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("dashboard: execute template: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func (p *Renderer) page(r *models.Report) (*page, error) {
	charts := make(map[string]template.HTML, len(ChartNames))
	for _, name := range ChartNames {
		var buf bytes.Buffer
		err := RenderChart(&buf, name, r, p.currency)
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("dashboard: chart %s: %w", name, err)
		}
		charts[name] = template.HTML(buf.String())
	}
	chartSection := func(s section, name string) section {
		s.Chart = charts[name]
		if s.Chart == "" {
			s.Empty = noDataText
		}
		return s
	}

	return &page{
		Title: "Climbing shoe analysis",
		Intro: "This is my final project. I analysed climbing shoe listings from https://www.4camping.cz/.",
		Sections: []section{
			{
				ID:    "preview",
				Title: "Data preview",
				Intro: "Before starting the analysis we look at the structure of the raw data we work with.",
				Table: &table{Header: r.Preview.Columns, Rows: r.Preview.Rows},
			},
			{
				ID:    "shape",
				Title: "Basic information about the data",
				Lines: []string{
					"Number of products: " + strconv.Itoa(r.Shape.Rows),
					"Number of attributes: " + strconv.Itoa(r.Shape.Columns),
					"Columns:",
				},
				Notes: r.Shape.Names,
			},
			chartSection(section{
				ID:      "category-share",
				Title:   "Category share",
				Intro:   "How the shoes are split by who they are made for (for example unisex, women's, children's).",
				Closing: "The chart shows that the standard categories make up the largest part of the offer, while special categories are less represented.",
			}, ChartCategoryShare),
			{
				ID:      "avg-price",
				Title:   "Average price by category",
				Intro:   "I wanted to know whether the average price differs depending on who the shoes are made for.",
				Table:   p.avgPriceTable(r.AvgPriceByCategory),
				Empty:   emptyIf(len(r.AvgPriceByCategory) == 0, "No listing has both a category and a price."),
				Closing: "Price differences between categories exist but are not dramatic. A lower price for children's shoes is to be expected.",
			},
			{
				ID:      "price-stats",
				Title:   "Price statistics",
				Intro:   "Basic statistics of the prices of all shoes on offer (minimum, maximum, mean).",
				Table:   p.statsTable(r.PriceStats),
				Closing: "The statistics show a fairly wide spread between the cheapest and the most expensive models.",
			},
			chartSection(section{
				ID:    "price-box",
				Title: "Price distribution (box plot)",
				Notes: p.boxNotes(r.PriceBox),
			}, ChartPriceBox),
			chartSection(section{
				ID:      "price-weight",
				Title:   "Price and weight",
				Intro:   "I wanted to test the hypothesis that lighter shoes, often performance models, cost more.",
				Lines:   []string{"Correlation between weight and price: " + formatCorrelation(r.PriceWeight.Correlation)},
				Closing: "A low correlation means weight is not the main factor that sets the price of climbing shoes.",
			}, ChartPriceWeight),
			{
				ID:      "top-discounts",
				Title:   "Shoes with the largest discount",
				Intro:   "The models with the largest absolute price reduction.",
				Table:   p.discountTable(r.TopDiscounts),
				Empty:   emptyIf(len(r.TopDiscounts) == 0, "No listing has both prices."),
				Closing: "Some discounts exceed a thousand crowns, which may be due to older collections being sold off.",
			},
			chartSection(section{
				ID:      "brand-discount",
				Title:   "Brands with the largest average discount",
				Intro:   "Which brands are discounted the most on average?",
				Closing: "Some brands clearly work with a stronger discount policy than others.",
			}, ChartBrandDiscount),
			p.brandShareSection(r.BrandShare),
		},
	}, nil
}

func (p *Renderer) avgPriceTable(rows []models.LabelValue) *table {
	if len(rows) == 0 {
		return nil
	}
	t := &table{Header: []string{"Category", "Average price (" + p.currency + ")"}}
	for _, c := range rows {
		t.Rows = append(t.Rows, []string{c.Label, p.amount(c.Value)})
	}
	return t
}

func (p *Renderer) statsTable(d models.Describe) *table {
	stat := func(v float64) string {
		if math.IsNaN(v) {
			return "n/a"
		}
		return p.printer.Sprintf("%.2f", v)
	}
	return &table{
		Header: []string{"Statistic", "current_price"},
		Rows: [][]string{
			{"count", strconv.Itoa(d.Count)},
			{"mean", stat(d.Mean)},
			{"std", stat(d.Std)},
			{"min", stat(d.Min)},
			{"25%", stat(d.Q25)},
			{"50%", stat(d.Median)},
			{"75%", stat(d.Q75)},
			{"max", stat(d.Max)},
		},
	}
}

func (p *Renderer) boxNotes(b models.BoxSummary) []string {
	if b.Count == 0 {
		return nil
	}
	return []string{
		"How to read this chart:",
		"Blue box: the middle half of the values (from 25 % to 75 % of the data).",
		"Vertical red line: the median (" + p.money(b.Median) + "). Half of the shoes cost less and half cost more.",
		"Lines: the price range towards the minimum and maximum. Dots beyond them are extremely cheap or expensive models (outliers).",
	}
}

func (p *Renderer) discountTable(rows []models.DiscountRow) *table {
	if len(rows) == 0 {
		return nil
	}
	t := &table{Header: []string{
		"Brand", "Name",
		"Original price (" + p.currency + ")",
		"Current price (" + p.currency + ")",
		"Discount (" + p.currency + ")",
	}}
	for _, d := range rows {
		t.Rows = append(t.Rows, []string{
			d.Brand, d.Name, p.decimal(d.OriginalPrice), p.decimal(d.CurrentPrice), p.decimal(d.Discount),
		})
	}
	return t
}

func (p *Renderer) brandShareSection(bs models.BrandShare) section {
	s := section{
		ID:    "brand-share",
		Title: "Brand share",
		Intro: "Finally, which brands have the widest product portfolio in the shop.",
	}
	if len(bs.Top) == 0 {
		s.Empty = noDataText
		return s
	}

	top := bs.Top[0].Count
	for _, b := range bs.Top {
		s.Bars = append(s.Bars, shareBar{
			Label: b.Label,
			Count: b.Count,
			Width: float64(b.Count) * 100 / float64(top),
		})
	}
	s.Lines = []string{fmt.Sprintf("The largest share belongs to %s, which makes up %.1f%% of all climbing shoes on offer.",
		bs.Leader, bs.LeaderPercent)}
	s.Closing = "The climbing shoe market is dominated by a few manufacturers offering the widest range of models."
	return s
}

func (p *Renderer) money(v float64) string {
	return p.amount(v) + " " + p.currency
}

func (p *Renderer) amount(v float64) string {
	return p.printer.Sprintf("%.0f", math.Round(v))
}

func (p *Renderer) decimal(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return p.printer.Sprintf("%d", d.IntPart())
	}
	return p.printer.Sprintf("%.2f", d.InexactFloat64())
}

func formatCorrelation(r float64) string {
	if math.IsNaN(r) {
		return "n/a"
	}
	return strconv.FormatFloat(r, 'f', 2, 64)
}

func emptyIf(cond bool, text string) string {
	if cond {
		return text
	}
	return ""
}
