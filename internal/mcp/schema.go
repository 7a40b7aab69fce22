package mcp

// initTools defines the schemas and descriptions surfaced to clients.
func (srv *Server) initTools() {
	obj := func(props map[string]any, required ...string) map[string]any {
		schema := map[string]any{"type": "object", "properties": props}
		if len(required) > 0 {
			schema["required"] = required
		}
		return schema
	}
	srv.tools = []ToolDesc{
		{
			Name:        "search",
			Description: "Search the web and return titles, URLs, and snippets. Use this first when you need to find information or discover URLs for a topic.",
			InputSchema: obj(map[string]any{
				"query":       map[string]any{"type": "string"},
				"max_results": map[string]any{"type": "integer", "minimum": 1, "maximum": 25},
			}, "query"),
		},
		{
			Name:        "visit_page",
			Description: "Visit a URL and extract its content as plain text. Large pages are split into 5000-character chunks; the first chunk is returned and has_more_chunks tells you whether load_more will yield more.",
			InputSchema: obj(map[string]any{
				"url": map[string]any{"type": "string"},
			}, "url"),
		},
		{
			Name:        "load_more",
			Description: "Load the next content chunk of the page last visited with visit_page. Takes no parameters; keep calling until has_more_chunks is false.",
			InputSchema: obj(map[string]any{}),
		},
		{
			Name:        "search_on_page",
			Description: "Find occurrences of a text within the currently visited page and return context snippets around each match.",
			InputSchema: obj(map[string]any{
				"text":         map[string]any{"type": "string"},
				"num_snippets": map[string]any{"type": "integer", "minimum": 1},
			}, "text"),
		},
		{
			Name:        "search_next_on_page",
			Description: "Continue the previous search_on_page from where it stopped and return the next batch of snippets.",
			InputSchema: obj(map[string]any{
				"num_snippets": map[string]any{"type": "integer", "minimum": 1},
			}),
		},
		{
			Name:        "read_chunk",
			Description: "Read a specific chunk of the currently visited page by index, without disturbing the linear reading position.",
			InputSchema: obj(map[string]any{
				"chunk_index": map[string]any{"type": "integer", "minimum": 0},
			}, "chunk_index"),
		},
		{
			Name:        "scrape_social_profile",
			Description: "Extract publicly visible name and bio from a social media profile URL.",
			InputSchema: obj(map[string]any{
				"platform":    map[string]any{"type": "string"},
				"profile_url": map[string]any{"type": "string"},
			}, "platform", "profile_url"),
		},
		{
			Name:        "extract_news_article",
			Description: "Extract the full text of a news article along with title, author, and publication date.",
			InputSchema: obj(map[string]any{
				"article_url":      map[string]any{"type": "string"},
				"include_metadata": map[string]any{"type": "boolean"},
			}, "article_url"),
		},
		{
			Name:        "scrape_product",
			Description: "Extract name, price, description, and availability from an e-commerce product page. Set include_reviews to also collect up to five reviews.",
			InputSchema: obj(map[string]any{
				"product_url":     map[string]any{"type": "string"},
				"include_reviews": map[string]any{"type": "boolean"},
			}, "product_url"),
		},
		{
			Name:        "scrape_business_info",
			Description: "Extract business details like address, phone, and hours. Not implemented yet.",
			InputSchema: obj(map[string]any{
				"search_query": map[string]any{"type": "string"},
				"location":     map[string]any{"type": "string"},
			}, "search_query"),
		},
		{
			Name:        "monitor_webpage",
			Description: "Monitor a webpage for content changes. Not implemented yet.",
			InputSchema: obj(map[string]any{
				"url":               map[string]any{"type": "string"},
				"selector":          map[string]any{"type": "string"},
				"frequency_minutes": map[string]any{"type": "integer", "minimum": 1},
			}, "url"),
		},
		{
			Name:        "download_document",
			Description: "Download a document and extract its text content. Not implemented yet.",
			InputSchema: obj(map[string]any{
				"document_url": map[string]any{"type": "string"},
				"extract_text": map[string]any{"type": "boolean"},
			}, "document_url"),
		},
	}
}
