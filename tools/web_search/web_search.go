// Package web_search holds thin clients for outbound search providers.
package web_search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result is one normalized search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider runs one query and returns up to k normalized results.
type Provider interface {
	Search(ctx context.Context, query string, k int) ([]Result, error)
}

// Doer lets tests inject an http.Client substitute.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// New picks a provider by name. Unknown names fall back to Brave.
func New(name, apiKey string) Provider {
	switch strings.ToLower(name) {
	case "serper":
		return &Serper{APIKey: apiKey}
	default:
		return &Brave{APIKey: apiKey}
	}
}

// -------- Brave --------

type Brave struct {
	APIKey string
	Doer   Doer
}

// Search queries the Brave web search API. k is clamped to [1,25];
// non-200s become an error carrying a truncated body.
func (b *Brave) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("brave: empty query")
	}
	if k < 1 || k > 25 {
		k = 10
	}
	doer := b.Doer
	if doer == nil {
		doer = &http.Client{Timeout: 20 * time.Second}
	}

	endpoint := fmt.Sprintf("https://api.search.brave.com/res/v1/web/search?q=%s&count=%d", urlQuery(query), k)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)

	resp, err := doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var raw struct {
		Web struct {
			Results []struct {
				Title   string `json:"title"`
				URL     string `json:"url"`
				Snippet string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(raw.Web.Results))
	for i, r := range raw.Web.Results {
		if i >= k {
			break
		}
		out = append(out, Result{Title: r.Title, URL: r.URL, Snippet: r.Snippet})
	}
	return out, nil
}

// -------- Serper --------

type Serper struct {
	APIKey string
	Doer   Doer
}

func (s *Serper) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("serper: empty query")
	}
	if k < 1 || k > 25 {
		k = 10
	}
	doer := s.Doer
	if doer == nil {
		doer = &http.Client{Timeout: 20 * time.Second}
	}

	payload, _ := json.Marshal(map[string]any{"q": query, "num": k})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://google.serper.dev/search", strings.NewReader(string(payload)))
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var raw struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(raw.Organic))
	for i, r := range raw.Organic {
		if i >= k {
			break
		}
		out = append(out, Result{Title: r.Title, URL: r.Link, Snippet: r.Snippet})
	}
	return out, nil
}

func urlQuery(s string) string { return strings.ReplaceAll(strings.TrimSpace(s), " ", "+") }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
