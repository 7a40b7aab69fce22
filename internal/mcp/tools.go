package mcp

import (
	"context"
	"fmt"
	"strings"

	"webscout/pagesearch"
	"webscout/safeurl"
	"webscout/tools/extract"
)

const (
	defaultSearchResults = 10
	defaultNumSnippets   = 5
)

// tSearch runs an outbound web search. An empty query is not an error:
// it returns an empty result set, matching the behavior agents expect
// when they probe with a blank string.
func (srv *Server) tSearch(ctx context.Context, args map[string]any) (map[string]any, error) {
	query := str(args["query"])
	if strings.TrimSpace(query) == "" {
		return map[string]any{"query": query, "results": []map[string]any{}, "total_results": 0}, nil
	}
	k := asInt(args["max_results"])
	if k <= 0 {
		k = defaultSearchResults
	}

	results, err := srv.Search.Search(ctx, query, k)
	if err != nil {
		return map[string]any{
			"query":         query,
			"results":       []map[string]any{},
			"total_results": 0,
			"error":         fmt.Sprintf("search failed: %v", err),
		}, nil
	}
	out := make([]map[string]any, 0, len(results))
	for _, r := range results {
		out = append(out, map[string]any{"title": r.Title, "url": r.URL, "snippet": r.Snippet})
	}
	return map[string]any{"query": query, "results": out, "total_results": len(out)}, nil
}

// tVisitPage fetches a page, registers its text as the current session,
// and returns the first chunk.
func (srv *Server) tVisitPage(ctx context.Context, args map[string]any) (map[string]any, error) {
	url := str(args["url"])
	if !safeurl.Validate(url) {
		return nil, fmt.Errorf("invalid or unsafe URL: %s", url)
	}

	text, page, err := srv.Fetcher.BodyText(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to visit page: %w", err)
	}
	view := srv.Workspace.OpenPage(text, page)

	return map[string]any{
		"url":             url,
		"content":         view.Content,
		"format":          "text",
		"chunk_index":     view.ChunkIndex,
		"has_more_chunks": view.HasMore,
	}, nil
}

// tLoadMore advances the current session's linear cursor. Reading past
// the last chunk reports completion, not an error.
func (srv *Server) tLoadMore(_ context.Context, _ map[string]any) (map[string]any, error) {
	res, err := srv.Workspace.LoadMore()
	if err != nil {
		return nil, err
	}
	if res.Done {
		return map[string]any{
			"status":          "complete",
			"message":         "No more chunks available",
			"chunk_index":     res.Index,
			"has_more_chunks": false,
		}, nil
	}
	return map[string]any{
		"status":          "success",
		"message":         fmt.Sprintf("Chunk %d loaded successfully", res.Index),
		"content":         res.Content,
		"chunk_index":     res.Index,
		"has_more_chunks": res.HasMore,
	}, nil
}

func (srv *Server) tSearchOnPage(_ context.Context, args map[string]any) (map[string]any, error) {
	text := str(args["text"])
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	n := asInt(args["num_snippets"])
	if n <= 0 {
		n = defaultNumSnippets
	}
	res, err := srv.Workspace.SearchOnPage(text, n)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"search_text":       res.SearchText,
		"total_matches":     res.TotalMatches,
		"snippets_returned": len(res.Snippets),
		"snippets":          snippetMaps(res),
	}, nil
}

func (srv *Server) tSearchNextOnPage(_ context.Context, args map[string]any) (map[string]any, error) {
	n := asInt(args["num_snippets"])
	if n <= 0 {
		n = defaultNumSnippets
	}
	res, err := srv.Workspace.SearchNext(n)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"search_text":       res.SearchText,
		"total_matches":     res.TotalMatches,
		"snippets_returned": len(res.Snippets),
		"snippets":          snippetMaps(res),
		"has_more_results":  res.HasMore,
	}, nil
}

func (srv *Server) tReadChunk(_ context.Context, args map[string]any) (map[string]any, error) {
	view, err := srv.Workspace.ReadChunk(asInt(args["chunk_index"]))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"chunk_index":  view.Index,
		"content":      view.Content,
		"total_chunks": view.TotalChunks,
		"chunk_size":   view.Size,
	}, nil
}

func (srv *Server) tScrapeSocialProfile(ctx context.Context, args map[string]any) (map[string]any, error) {
	platform := str(args["platform"])
	profileURL := str(args["profile_url"])
	if !safeurl.Validate(profileURL) {
		return nil, fmt.Errorf("invalid or unsafe URL: %s", profileURL)
	}

	html, err := srv.renderHTML(ctx, profileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape profile: %w", err)
	}
	profile, err := extract.ProfileFromHTML(platform, profileURL, html)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape profile: %w", err)
	}

	out := map[string]any{
		"platform": profile.Platform,
		"url":      profile.URL,
		"title":    profile.Title,
	}
	if profile.Name != "" {
		out["name"] = profile.Name
	}
	if profile.Bio != "" {
		out["bio"] = profile.Bio
	}
	return out, nil
}

func (srv *Server) tExtractNewsArticle(ctx context.Context, args map[string]any) (map[string]any, error) {
	articleURL := str(args["article_url"])
	if !safeurl.Validate(articleURL) {
		return nil, fmt.Errorf("invalid or unsafe URL: %s", articleURL)
	}
	includeMetadata := asBool(args["include_metadata"], true)

	art, err := srv.Articles.Extract(ctx, articleURL, includeMetadata)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}
	return map[string]any{
		"url":     art.URL,
		"title":   art.Title,
		"content": art.Content,
		"author":  art.Author,
		"date":    art.Date,
	}, nil
}

func (srv *Server) tScrapeProduct(ctx context.Context, args map[string]any) (map[string]any, error) {
	productURL := str(args["product_url"])
	if !safeurl.Validate(productURL) {
		return nil, fmt.Errorf("invalid or unsafe URL: %s", productURL)
	}
	includeReviews := asBool(args["include_reviews"], false)

	html, err := srv.renderHTML(ctx, productURL)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape product: %w", err)
	}
	product, err := extract.ProductFromHTML(productURL, html, includeReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape product: %w", err)
	}

	var reviews any
	if includeReviews {
		if product.Reviews == nil {
			reviews = []string{}
		} else {
			reviews = product.Reviews
		}
	} else {
		reviews = "Reviews available but not included (set include_reviews=true)"
	}
	return map[string]any{
		"url":          product.URL,
		"name":         product.Name,
		"price":        product.Price,
		"description":  product.Description,
		"availability": product.Availability,
		"reviews":      reviews,
	}, nil
}

// tNotImplemented answers the tools the surface advertises but does not
// back yet, echoing the inputs so callers can see what was understood.
func (srv *Server) tNotImplemented(name string, args map[string]any, fields ...string) (map[string]any, error) {
	out := map[string]any{"error": fmt.Sprintf("%s is not implemented", name)}
	for _, f := range fields {
		if v, ok := args[f]; ok {
			out[f] = v
		}
	}
	return out, nil
}

// renderHTML opens a throwaway tab for one selector-scrape and releases
// it before returning.
func (srv *Server) renderHTML(ctx context.Context, url string) (string, error) {
	page, err := srv.Fetcher.Open(ctx, url, 0)
	if err != nil {
		return "", err
	}
	defer func() { _ = page.Release() }()
	return page.HTML(ctx, "html")
}

func snippetMaps(res pagesearch.Result) []map[string]any {
	out := make([]map[string]any, 0, len(res.Snippets))
	for _, s := range res.Snippets {
		out = append(out, map[string]any{
			"chunk_index": s.ChunkIndex,
			"snippet":     s.Snippet,
			"position":    s.Position,
		})
	}
	return out
}
