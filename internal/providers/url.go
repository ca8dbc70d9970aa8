package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/refmint/refmint/internal/csl"
)

// URLProvider builds CSL webpage items by scraping citation metadata from
// HTML pages.
type URLProvider struct {
	client *Client

	// now is stubbed in tests to pin the accessed date.
	now func() time.Time
}

// NewURLProvider returns a URLProvider backed by client.
func NewURLProvider(client *Client) *URLProvider {
	return &URLProvider{client: client, now: time.Now}
}

// Retrieve fetches the page at identifier and scrapes Highwire, Open
// Graph, and document metadata into a CSL webpage item.
func (p *URLProvider) Retrieve(ctx context.Context, identifier string) (csl.Item, error) {
	resp, err := p.client.get(ctx, identifier, "text/html")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", identifier, err)
	}

	accessed := p.now().UTC()
	item := csl.Item{
		"type": "webpage",
		"URL":  identifier,
		"accessed": map[string]any{
			"date-parts": []any{[]any{
				float64(accessed.Year()), float64(accessed.Month()), float64(accessed.Day()),
			}},
		},
	}
	if title := pageTitle(doc); title != "" {
		item["title"] = title
	}
	if siteName := metaContent(doc, "meta[property='og:site_name']"); siteName != "" {
		item["container-title"] = siteName
	}
	var authors []any
	doc.Find("meta[name='citation_author']").Each(func(_ int, s *goquery.Selection) {
		if name := strings.TrimSpace(s.AttrOr("content", "")); name != "" {
			authors = append(authors, map[string]any{"literal": name})
		}
	})
	if len(authors) > 0 {
		item["author"] = authors
	}
	return item, nil
}

// pageTitle prefers Highwire citation metadata over Open Graph over the
// document title.
func pageTitle(doc *goquery.Document) string {
	if title := metaContent(doc, "meta[name='citation_title']"); title != "" {
		return title
	}
	if title := metaContent(doc, "meta[property='og:title']"); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}
