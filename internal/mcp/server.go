// Package mcp runs the stdio JSON-RPC tool server. The protocol layer
// stays deliberately small: "tools/list" advertises descriptors,
// "tools/call" dispatches into handlers, and every handler failure is
// folded into a result-level "error" field so a tool call never aborts
// the host conversation.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"webscout/browse"
	"webscout/internal/telemetry"
	"webscout/tools/extract"
	"webscout/tools/web_fetch"
	"webscout/tools/web_search"
)

// ---------- JSON-RPC skeleton ----------

type rpcReq struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
}
type rpcResp struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Result  map[string]any `json:"result,omitempty"`
	Error   *rpcError      `json:"error,omitempty"`
}
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeResp(w io.Writer, id any, result map[string]any, err error) {
	resp := rpcResp{JSONRPC: "2.0", ID: id}
	if err != nil {
		resp.Error = &rpcError{Code: -32000, Message: err.Error()}
	} else {
		resp.Result = result
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// ---------- Server ----------

// ToolDesc describes a single tool, including input schema.
type ToolDesc struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Server holds shared dependencies. Per-conversation state (current
// session, search cursor) lives in the Workspace.
type Server struct {
	Workspace *browse.Workspace
	Fetcher   *web_fetch.Fetcher
	Search    web_search.Provider
	Articles  *extract.ArticleExtractor
	Metrics   *telemetry.Metrics

	CallTimeout time.Duration

	logger *log.Logger
	tools  []ToolDesc
}

// Deps carries everything a Server needs; wiring happens in cmd.
type Deps struct {
	Workspace *browse.Workspace
	Fetcher   *web_fetch.Fetcher
	Search    web_search.Provider
	Articles  *extract.ArticleExtractor
	Metrics   *telemetry.Metrics
}

func NewServer(d Deps) *Server {
	srv := &Server{
		Workspace:   d.Workspace,
		Fetcher:     d.Fetcher,
		Search:      d.Search,
		Articles:    d.Articles,
		Metrics:     d.Metrics,
		CallTimeout: 60 * time.Second,
		logger:      log.New(log.Writer(), "[MCP] ", log.LstdFlags|log.Lshortfile),
	}
	srv.initTools()
	return srv
}

// Tools returns the advertised descriptors.
func (srv *Server) Tools() []ToolDesc { return srv.tools }

// Call dispatches one tool invocation. All failures, including unknown
// tool names, come back as a result-level "error" field.
func (srv *Server) Call(ctx context.Context, name string, args map[string]any) map[string]any {
	start := time.Now()
	res, err := srv.callTool(ctx, name, args)
	status := "ok"
	if err != nil {
		status = "error"
		res = map[string]any{"error": err.Error()}
	} else if _, failed := res["error"]; failed {
		status = "error"
	}
	srv.Metrics.Observe(name, status, time.Since(start))
	return res
}

func (srv *Server) callTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "search":
		return srv.tSearch(ctx, args)
	case "visit_page":
		return srv.tVisitPage(ctx, args)
	case "load_more":
		return srv.tLoadMore(ctx, args)
	case "search_on_page":
		return srv.tSearchOnPage(ctx, args)
	case "search_next_on_page":
		return srv.tSearchNextOnPage(ctx, args)
	case "read_chunk":
		return srv.tReadChunk(ctx, args)
	case "scrape_social_profile":
		return srv.tScrapeSocialProfile(ctx, args)
	case "extract_news_article":
		return srv.tExtractNewsArticle(ctx, args)
	case "scrape_product":
		return srv.tScrapeProduct(ctx, args)
	case "scrape_business_info":
		return srv.tNotImplemented("scrape_business_info", args, "search_query", "location")
	case "monitor_webpage":
		return srv.tNotImplemented("monitor_webpage", args, "url", "selector", "frequency_minutes")
	case "download_document":
		return srv.tNotImplemented("download_document", args, "document_url", "extract_text")
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// ---------- stdio loop ----------

// Serve runs the stdio JSON-RPC loop until EOF. Frames are
// newline-delimited; each line is parsed on its own so a malformed
// frame is dropped without poisoning decoder state for later lines.
func (srv *Server) Serve(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var req rpcReq
		if err := json.Unmarshal(line, &req); err != nil {
			srv.logger.Printf("dropping malformed frame: %v", err)
			continue
		}

		switch req.Method {
		case "tools/list":
			writeResp(out, req.ID, map[string]any{"tools": srv.tools}, nil)

		case "tools/call":
			name, _ := req.Params["name"].(string)
			args, _ := req.Params["arguments"].(map[string]any)
			if args == nil {
				args = map[string]any{}
			}
			ctx, cancel := context.WithTimeout(context.Background(), srv.CallTimeout)
			res := srv.Call(ctx, name, args)
			cancel()
			writeResp(out, req.ID, res, nil)

		default:
			writeResp(out, req.ID, nil, fmt.Errorf("unknown method: %s", req.Method))
		}
	}
	return sc.Err()
}

// ---------- helpers ----------

func str(v any) string { s, _ := v.(string); return s }

func asInt(v any) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	case json.Number:
		i, _ := x.Int64()
		return int(i)
	default:
		return 0
	}
}

func asBool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}
