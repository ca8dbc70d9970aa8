package providers

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/refmint/refmint/internal/csl"
)

// ArxivProvider resolves arXiv identifiers through the arXiv Atom API.
type ArxivProvider struct {
	client  *Client
	baseURL string
}

// NewArxivProvider returns an ArxivProvider backed by client.
func NewArxivProvider(client *Client) *ArxivProvider {
	return &ArxivProvider{client: client, baseURL: "https://export.arxiv.org"}
}

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	DOI       string `xml:"doi"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseWhitespace folds the hard-wrapped text the Atom API returns into
// single-spaced prose.
func collapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Retrieve fetches metadata for an arXiv identifier and maps it to a CSL
// manuscript item.
func (p *ArxivProvider) Retrieve(ctx context.Context, identifier string) (csl.Item, error) {
	u := fmt.Sprintf("%s/api/query?id_list=%s&max_results=1", p.baseURL, url.QueryEscape(identifier))
	resp, err := p.client.get(ctx, u, "application/atom+xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode %s: %w", u, err)
	}
	// A miss still returns a feed, with a single entry carrying no id.
	if len(feed.Entries) == 0 || feed.Entries[0].ID == "" {
		return nil, fmt.Errorf("arxiv:%s: %w", identifier, ErrNotFound)
	}
	entry := feed.Entries[0]

	item := csl.Item{
		"type":            "manuscript",
		"container-title": "arXiv",
		"number":          "arXiv:" + identifier,
		"URL":             "https://arxiv.org/abs/" + identifier,
	}
	if title := collapseWhitespace(entry.Title); title != "" {
		item["title"] = title
	}
	if abstract := collapseWhitespace(entry.Summary); abstract != "" {
		item["abstract"] = abstract
	}
	if entry.DOI != "" {
		item["DOI"] = strings.ToLower(entry.DOI)
	}
	if len(entry.Authors) > 0 {
		authors := make([]any, 0, len(entry.Authors))
		for _, author := range entry.Authors {
			authors = append(authors, map[string]any{"literal": author.Name})
		}
		item["author"] = authors
	}
	if published, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		item["issued"] = map[string]any{
			"date-parts": []any{[]any{
				float64(published.Year()), float64(published.Month()), float64(published.Day()),
			}},
		}
	}
	return item, nil
}
