package fourcamping

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"

	"shoe-report/config"
	"shoe-report/models"
	"shoe-report/utils"
)

// Scraper walks the climbing shoe catalogue of 4camping.cz and visits every
// product page it links to.
type Scraper struct {
	cfg        *config.Config
	logger     *utils.Logger
	pool       *utils.WorkerPool
	visitedURL *utils.URLSet
	retry      *utils.RetryConfig
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:        cfg,
		logger:     logger,
		pool:       utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		visitedURL: utils.NewURLSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Scrape collects product links from the catalogue pages, then scrapes the
// product pages concurrently. Failed product pages are logged and skipped.
func (s *Scraper) Scrape(ctx context.Context) ([]*models.RawListing, error) {
	s.logger.Info("[4camping] Starting scrape, target: %d catalogue pages from %s",
		s.cfg.PagesToScrape, s.cfg.ScrapeStartURL)

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[4camping] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	// Start the browser once so every tab below shares it.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("4camping: start browser: %w", err)
	}

	var productURLs []string
	currentURL := s.cfg.ScrapeStartURL
	for page := 1; page <= s.cfg.PagesToScrape; page++ {
		s.logger.Info("[4camping] Catalogue page %d: %s", page, currentURL)

		links, nextURL, err := s.scrapeCatalogue(browserCtx, currentURL, page)
		if err != nil {
			s.logger.Error("[4camping] Catalogue page %d failed: %v", page, err)
			break
		}

		fresh := 0
		for _, link := range links {
			if s.visitedURL.Add(link) {
				productURLs = append(productURLs, link)
				fresh++
			}
		}
		if fresh == 0 {
			s.logger.Warn("[4camping] Page %d had no new products, stopping", page)
			break
		}
		s.logger.Info("[4camping] Page %d done, %d product links so far", page, len(productURLs))

		if page >= s.cfg.PagesToScrape {
			break
		}
		if nextURL == "" {
			nextURL = PageURL(s.cfg.ScrapeStartURL, page+1)
		}
		currentURL = nextURL

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(s.cfg.RateLimitMs) * time.Millisecond):
		}
	}

	// each job owns its slot, so the output follows catalogue order
	scraped := make([]*models.RawListing, len(productURLs))
	for i, link := range productURLs {
		i, link := i, link
		s.pool.Submit(browserCtx, func(ctx context.Context) error {
			raw, err := s.scrapeProduct(ctx, link)
			if err != nil {
				s.logger.Warn("[4camping] Product page failed for %s: %v", link, err)
				return err
			}
			scraped[i] = raw
			s.logger.Debug("[4camping] Scraped: %s %s", raw.Brand, raw.Name)
			return nil
		})
	}
	poolErr := s.pool.Wait()

	listings := compact(scraped)
	if poolErr != nil {
		s.logger.Warn("[4camping] %d of %d product pages failed", len(productURLs)-len(listings), len(productURLs))
	}

	s.logger.Info("[4camping] Scrape complete, total raw listings: %d", len(listings))
	if len(listings) == 0 {
		return nil, errors.New("4camping: no listings scraped")
	}
	return listings, nil
}

// compact drops the slots of failed product pages and keeps the rest in order.
func compact(scraped []*models.RawListing) []*models.RawListing {
	listings := make([]*models.RawListing, 0, len(scraped))
	for _, raw := range scraped {
		if raw != nil {
			listings = append(listings, raw)
		}
	}
	return listings
}

// scrapeCatalogue loads one catalogue page and returns the product links on
// it and the next page link, if the page has one.
func (s *Scraper) scrapeCatalogue(browserCtx context.Context, pageURL string, pageNum int) ([]string, string, error) {
	var links []string
	var nextURL string

	err := s.retry.Do(browserCtx, fmt.Sprintf("catalogue-page-%d", pageNum), func(ctx context.Context) error {
		tabCtx, cancel := chromedp.NewContext(ctx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 90*time.Second)
		defer cancelTimeout()

		var found []string
		var next string

		err := chromedp.Run(tabCtx,
			chromedp.Navigate(pageURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(3*time.Second),

			// Lazy-loaded tiles
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(2*time.Second),

			chromedp.Evaluate(catalogueLinksJS, &found),
			chromedp.Evaluate(nextPageJS, &next),
		)
		if err != nil {
			return fmt.Errorf("chromedp catalogue scrape: %w", err)
		}

		links = found
		nextURL = next
		return nil
	})

	s.logger.Debug("[4camping] Page %d: %d product links", pageNum, len(links))
	return links, nextURL, err
}

// scrapeProduct visits a product page and reads its JSON-LD Product block,
// the struck-through original price and the parameter table.
func (s *Scraper) scrapeProduct(poolCtx context.Context, productURL string) (*models.RawListing, error) {
	var raw *models.RawListing

	err := s.retry.Do(poolCtx, "product-page", func(ctx context.Context) error {
		tabCtx, cancel := chromedp.NewContext(ctx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
		defer cancelTimeout()

		var page productPage
		err := chromedp.Run(tabCtx,
			chromedp.Navigate(productURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(productPageJS, &page),
		)
		if err != nil {
			return fmt.Errorf("chromedp product extract: %w", err)
		}

		raw = page.toRawListing(productURL)
		if raw.Name == "" {
			return errors.New("product name not found")
		}
		return nil
	})

	return raw, err
}

// PageURL returns the URL of catalogue page n, used when a page has no
// explicit next link.
func PageURL(base string, n int) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String()
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
