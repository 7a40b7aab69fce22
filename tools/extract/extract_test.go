package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const productHTML = `<html><head><title>Shop</title></head><body>
<h1 class="product-title">Mechanical Keyboard</h1>
<span class="price">$129.00</span>
<div class="product-description">Tactile switches, aluminum frame.</div>
<div class="stock">In stock</div>
<div class="review">Great board!</div>
<div class="review">Loud but lovely.</div>
</body></html>`

func TestProductFromHTML(t *testing.T) {
	p, err := ProductFromHTML("https://shop.example/kb", productHTML, true)
	if err != nil {
		t.Fatalf("ProductFromHTML: %v", err)
	}
	if p.Name != "Mechanical Keyboard" {
		t.Errorf("name: %q", p.Name)
	}
	if p.Price != "$129.00" {
		t.Errorf("price: %q", p.Price)
	}
	if p.Description != "Tactile switches, aluminum frame." {
		t.Errorf("description: %q", p.Description)
	}
	if p.Availability != "In stock" {
		t.Errorf("availability: %q", p.Availability)
	}
	if len(p.Reviews) != 2 {
		t.Errorf("reviews: %v", p.Reviews)
	}
}

func TestProductReviewsSkippedByDefault(t *testing.T) {
	p, err := ProductFromHTML("https://shop.example/kb", productHTML, false)
	if err != nil {
		t.Fatal(err)
	}
	if p.Reviews != nil {
		t.Fatalf("reviews should not be collected: %v", p.Reviews)
	}
}

func TestProductReviewLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&b, `<div class="review">review %d</div>`, i)
	}
	b.WriteString("</body></html>")

	p, err := ProductFromHTML("u", b.String(), true)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Reviews) != maxReviews {
		t.Fatalf("expected %d reviews, got %d", maxReviews, len(p.Reviews))
	}
}

func TestProfileFromHTML(t *testing.T) {
	html := `<html><head><title>Jo on Example</title></head><body>
	<div class="profile"><h1>Jo Dev</h1><p>Building things.</p></div>
	</body></html>`

	p, err := ProfileFromHTML("example", "https://social.example/jo", html)
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Jo on Example" {
		t.Errorf("title: %q", p.Title)
	}
	if p.Name != "Jo Dev" {
		t.Errorf("name: %q", p.Name)
	}
	if p.Bio != "Building things." {
		t.Errorf("bio: %q", p.Bio)
	}
}

func TestProfileMissingFieldsStayEmpty(t *testing.T) {
	p, err := ProfileFromHTML("x", "https://social.example/a", "<html><body></body></html>")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "" || p.Bio != "" {
		t.Fatalf("expected empty fields: %+v", p)
	}
}

func TestArticleExtract(t *testing.T) {
	page := `<html><head><title>News</title></head><body>
	<h1>Big Story</h1>
	<div class="byline">Jane Reporter</div>
	<time>2024-05-01</time>
	<article><p>First paragraph of the story.</p><p>Second paragraph with more detail.</p></article>
	</body></html>`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer ts.Close()

	e := NewArticleExtractor(5*time.Second, "test-agent")
	art, err := e.Extract(context.Background(), ts.URL, true)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if art.URL != ts.URL {
		t.Errorf("url: %q", art.URL)
	}
	if art.Title == "" {
		t.Error("title should be extracted")
	}
	if !strings.Contains(art.Content, "First paragraph") {
		t.Errorf("content missing body text: %q", art.Content)
	}
	if art.Author != "Jane Reporter" {
		t.Errorf("author: %q", art.Author)
	}
	if art.Date != "2024-05-01" {
		t.Errorf("date: %q", art.Date)
	}
}

func TestArticleExtractWithoutMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>T</h1><p>Body text here.</p></body></html>`))
	}))
	defer ts.Close()

	e := NewArticleExtractor(5*time.Second, "test-agent")
	art, err := e.Extract(context.Background(), ts.URL, false)
	if err != nil {
		t.Fatal(err)
	}
	if art.Author != "" || art.Date != "" {
		t.Fatalf("metadata should be skipped: %+v", art)
	}
}

func TestArticleExtractUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	e := NewArticleExtractor(5*time.Second, "test-agent")
	if _, err := e.Extract(context.Background(), ts.URL, true); err == nil {
		t.Fatal("expected error for 404 response")
	}
}
