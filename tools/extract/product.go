package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Product is a scraped e-commerce listing.
type Product struct {
	URL          string
	Name         string
	Price        string
	Description  string
	Availability string
	Reviews      []string
}

const maxReviews = 5

var (
	productNameSelectors = []string{"[data-testid='product-title']", ".product-title", ".product-name", "h1", "[data-testid='title']", ".title"}
	priceSelectors       = []string{"[data-testid='price']", ".price", ".product-price", ".current-price", "[class*='price']"}
	descSelectors        = []string{".product-description", ".description", ".product-details", "[data-testid='description']"}
	availSelectors       = []string{".availability", ".stock", ".in-stock", "[data-testid*='stock']"}
	reviewSelectors      = []string{".review", ".review-item", "[data-testid*='review']", ".customer-review"}
)

// ProductFromHTML walks selector candidates over a rendered product
// page. Sites vary wildly, so every field is best-effort; missing
// selectors leave the field empty rather than failing the call.
func ProductFromHTML(pageURL, html string, includeReviews bool) (Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Product{}, err
	}
	p := Product{
		URL:          pageURL,
		Name:         firstText(doc, productNameSelectors),
		Price:        firstText(doc, priceSelectors),
		Description:  firstText(doc, descSelectors),
		Availability: firstText(doc, availSelectors),
	}
	if includeReviews {
		p.Reviews = collectTexts(doc, reviewSelectors, maxReviews)
	}
	return p, nil
}

// collectTexts gathers up to max non-empty texts from the first selector
// that matches anything.
func collectTexts(doc *goquery.Document, selectors []string, max int) []string {
	for _, sel := range selectors {
		var out []string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if t := strings.TrimSpace(s.Text()); t != "" {
				out = append(out, t)
			}
			return len(out) < max
		})
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
