// Package web_fetch drives a headless browser for page visits and
// selector scraping.
package web_fetch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Page is the capability surface one open tab exposes to callers.
// Release closes the tab; failures are reported but safe to ignore.
type Page interface {
	Text(ctx context.Context, selector string) (string, error)
	HTML(ctx context.Context, selector string) (string, error)
	Release() error
}

// Fetcher owns a long-lived Chrome process for performance.
// Construct once; open tabs per URL. Call Close() on shutdown.
type Fetcher struct {
	allocCtx  context.Context
	cancelAll context.CancelFunc
	brCtx     context.Context
	cancelBr  context.CancelFunc

	UserAgent string
	DefaultTO time.Duration
	Settle    time.Duration

	cache *expirable.LRU[string, string]
}

// NewFetcher starts a reusable headless browser. Body text is cached per
// URL in a TTL-bounded LRU so repeated visits skip the render.
func NewFetcher(defaultTO time.Duration, userAgent string, cacheSize int, cacheTTL time.Duration) (*Fetcher, error) {
	if defaultTO <= 0 {
		defaultTO = 30 * time.Second
	}
	if cacheSize <= 0 {
		cacheSize = 128
	}
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(userAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	bctx, cancelBr := chromedp.NewContext(actx)

	return &Fetcher{
		allocCtx:  actx,
		cancelAll: cancelAlloc,
		brCtx:     bctx,
		cancelBr:  cancelBr,
		UserAgent: userAgent,
		DefaultTO: defaultTO,
		Settle:    2 * time.Second,
		cache:     expirable.NewLRU[string, string](cacheSize, nil, cacheTTL),
	}, nil
}

// Close tears down Chrome resources.
func (f *Fetcher) Close() {
	if f.cancelBr != nil {
		f.cancelBr()
	}
	if f.cancelAll != nil {
		f.cancelAll()
	}
}

// Open navigates a fresh tab to link and waits for the body to settle.
// The returned Page stays live until Release.
func (f *Fetcher) Open(ctx context.Context, link string, timeout time.Duration) (Page, error) {
	if strings.TrimSpace(link) == "" {
		return nil, errors.New("invalid url")
	}
	if timeout <= 0 {
		timeout = f.DefaultTO
	}
	tabCtx, cancelTab := chromedp.NewContext(f.brCtx)
	runCtx, cancelRun := context.WithTimeout(tabCtx, timeout)
	defer cancelRun()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(link),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(f.Settle),
	)
	if err != nil {
		cancelTab()
		return nil, err
	}
	return &tab{ctx: tabCtx, cancel: cancelTab, timeout: f.DefaultTO}, nil
}

// BodyText opens link and extracts the visible body text. A cache hit
// returns (text, nil, nil): no tab is held open for cached content.
func (f *Fetcher) BodyText(ctx context.Context, link string) (string, Page, error) {
	if text, ok := f.cache.Get(link); ok {
		return text, nil, nil
	}
	page, err := f.Open(ctx, link, 0)
	if err != nil {
		return "", nil, err
	}
	text, err := page.Text(ctx, "body")
	if err != nil {
		_ = page.Release()
		return "", nil, err
	}
	f.cache.Add(link, text)
	return text, page, nil
}

// tab is one chromedp browser tab.
type tab struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

func (t *tab) Text(ctx context.Context, selector string) (string, error) {
	var out string
	if err := t.run(ctx, chromedp.Text(selector, &out, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (t *tab) HTML(ctx context.Context, selector string) (string, error) {
	var out string
	if err := t.run(ctx, chromedp.OuterHTML(selector, &out, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return out, nil
}

func (t *tab) Release() error {
	t.cancel()
	return nil
}

func (t *tab) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(t.ctx, t.timeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(runCtx, actions...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}
