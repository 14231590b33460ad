package fourcamping

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"shoe-report/models"
)

// catalogueLinksJS returns the absolute product links of the catalogue tiles.
const catalogueLinksJS = `
(function() {
	var selectors = [
		'[data-testid="product-tile"] a[href]',
		'.product-list .product a[href]',
		'article.product a[href]',
		'a[href*="/p/"]'
	];
	var anchors = [];
	for (var i = 0; i < selectors.length; i++) {
		anchors = document.querySelectorAll(selectors[i]);
		if (anchors.length > 0) break;
	}
	var seen = {};
	var links = [];
	for (var j = 0; j < anchors.length; j++) {
		var href = anchors[j].href;
		if (!href || seen[href] || href.indexOf('/p/') === -1) continue;
		seen[href] = true;
		links.push(href);
	}
	return links;
})()
`

// nextPageJS returns the next catalogue page link or an empty string.
const nextPageJS = `
(function() {
	var next = document.querySelector('link[rel="next"]') ||
	           document.querySelector('a[rel="next"]') ||
	           document.querySelector('.pagination a.next, .pagination__next a, a.pagination__next');
	return next && next.href ? next.href : '';
})()
`

// productPageJS collects the raw material of a product page: every JSON-LD
// block, the heading, the crossed-out price and the parameter table.
const productPageJS = `
(function() {
	var result = { ld: [], title: '', oldPrice: '', params: {} };

	var scripts = document.querySelectorAll('script[type="application/ld+json"]');
	for (var i = 0; i < scripts.length; i++) {
		result.ld.push(scripts[i].textContent || '');
	}

	var h1 = document.querySelector('h1');
	if (h1) result.title = h1.innerText.trim();

	var old = document.querySelector('del, s, .price--old, .product-price__old, [data-testid="price-original"]');
	if (old) result.oldPrice = old.innerText.trim();

	var rows = document.querySelectorAll('table tr, dl > div');
	for (var j = 0; j < rows.length; j++) {
		var key = rows[j].querySelector('th, dt');
		var val = rows[j].querySelector('td, dd');
		if (key && val) {
			result.params[key.innerText.trim()] = val.innerText.trim();
		}
	}
	return result;
})()
`

// productPage is what productPageJS returns.
type productPage struct {
	LD       []string          `json:"ld"`
	Title    string            `json:"title"`
	OldPrice string            `json:"oldPrice"`
	Params   map[string]string `json:"params"`
}

// Parameter table labels, matched case-insensitively by prefix.
var (
	categoryParams = []string{"určení", "pro koho", "pohlaví"}
	weightParams   = []string{"hmotnost", "váha"}
)

type ldProduct struct {
	Name  string
	Brand string
	Price string
}

func (p productPage) toRawListing(productURL string) *models.RawListing {
	product := findProduct(p.LD)

	raw := &models.RawListing{
		Brand:        product.Brand,
		Name:         product.Name,
		Category:     param(p.Params, categoryParams),
		RawPrice:     product.Price,
		RawOrigPrice: p.OldPrice,
		RawWeight:    param(p.Params, weightParams),
		URL:          productURL,
		ScrapedAt:    time.Now(),
	}
	if raw.Name == "" {
		raw.Name = p.Title
	}
	return raw
}

// findProduct returns the first schema.org Product among the JSON-LD blocks.
// Blocks may hold a single object, an array or an @graph.
func findProduct(blocks []string) ldProduct {
	for _, block := range blocks {
		var doc interface{}
		if err := json.Unmarshal([]byte(block), &doc); err != nil {
			continue
		}
		if p, ok := searchProduct(doc); ok {
			return p
		}
	}
	return ldProduct{}
}

func searchProduct(node interface{}) (ldProduct, bool) {
	switch v := node.(type) {
	case []interface{}:
		for _, item := range v {
			if p, ok := searchProduct(item); ok {
				return p, true
			}
		}
	case map[string]interface{}:
		if isType(v["@type"], "Product") {
			return ldProduct{
				Name:  text(v["name"]),
				Brand: brandName(v["brand"]),
				Price: offerPrice(v["offers"]),
			}, true
		}
		if graph, ok := v["@graph"]; ok {
			return searchProduct(graph)
		}
	}
	return ldProduct{}, false
}

func isType(t interface{}, want string) bool {
	switch v := t.(type) {
	case string:
		return v == want
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func brandName(b interface{}) string {
	if m, ok := b.(map[string]interface{}); ok {
		return text(m["name"])
	}
	return text(b)
}

// offerPrice reads price from an Offer, or lowPrice from an AggregateOffer.
// A list of offers yields the first one with a price.
func offerPrice(o interface{}) string {
	switch v := o.(type) {
	case []interface{}:
		for _, item := range v {
			if p := offerPrice(item); p != "" {
				return p
			}
		}
	case map[string]interface{}:
		if p := text(v["price"]); p != "" {
			return p
		}
		return text(v["lowPrice"])
	}
	return ""
}

func text(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func param(params map[string]string, keys []string) string {
	for _, k := range keys {
		for label, value := range params {
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(label)), k) {
				return value
			}
		}
	}
	return ""
}
