// Package extract pulls structured records (articles, products, social
// profiles) out of HTML documents.
package extract

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	readability "github.com/go-shiori/go-readability"
)

// Article is an extracted news article with optional metadata.
type Article struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

var (
	titleSelectors   = []string{"h1", "h2", "title", ".article-title", ".post-title"}
	contentSelectors = []string{".article-body", ".post-content", ".entry-content", ".content", "article", ".story-body", ".article-content"}
	authorSelectors  = []string{".author", ".byline", "[rel='author']", ".article-author", ".post-author"}
	dateSelectors    = []string{"time", ".date", ".publish-date", ".article-date", "[property*='published']"}
)

// ArticleExtractor fetches article pages over plain HTTP; articles do
// not need a browser render.
type ArticleExtractor struct {
	client *resty.Client
}

func NewArticleExtractor(timeout time.Duration, userAgent string) *ArticleExtractor {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	return &ArticleExtractor{client: client}
}

// Extract downloads articleURL and builds an Article. Readability
// provides title and body text; when it cannot find a body, selector
// lists and finally bare paragraph text are tried. Author and date are
// selector-driven and only filled when includeMetadata is set.
func (e *ArticleExtractor) Extract(ctx context.Context, articleURL string, includeMetadata bool) (Article, error) {
	resp, err := e.client.R().SetContext(ctx).Get(articleURL)
	if err != nil {
		return Article{}, err
	}
	if resp.StatusCode() >= 400 {
		return Article{}, fmt.Errorf("fetch %s: status %d", articleURL, resp.StatusCode())
	}
	html := string(resp.Body())

	art := Article{URL: articleURL}

	parsed, _ := url.Parse(articleURL)
	if readable, err := readability.FromReader(strings.NewReader(html), parsed); err == nil {
		art.Title = strings.TrimSpace(readable.Title)
		art.Content = strings.TrimSpace(readable.TextContent)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		if art.Content == "" {
			return Article{}, err
		}
		return art, nil
	}

	if art.Title == "" {
		art.Title = firstText(doc, titleSelectors)
	}
	if art.Content == "" {
		art.Content = firstText(doc, contentSelectors)
	}
	if art.Content == "" {
		var parts []string
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		art.Content = strings.Join(parts, " ")
	}

	if includeMetadata {
		art.Author = firstText(doc, authorSelectors)
		art.Date = firstText(doc, dateSelectors)
	}
	return art, nil
}

// firstText returns the trimmed text of the first selector that matches
// a non-empty element.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}
