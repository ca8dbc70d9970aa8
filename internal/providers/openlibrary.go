package providers

import (
	"context"
	"regexp"
	"strconv"

	"github.com/refmint/refmint/internal/csl"
)

// OpenLibraryProvider resolves ISBNs through the Open Library books API.
type OpenLibraryProvider struct {
	client  *Client
	baseURL string
}

// NewOpenLibraryProvider returns an OpenLibraryProvider backed by client.
func NewOpenLibraryProvider(client *Client) *OpenLibraryProvider {
	return &OpenLibraryProvider{client: client, baseURL: "https://openlibrary.org"}
}

type openLibraryBook struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	PublishDate   string   `json:"publish_date"`
	Publishers    []string `json:"publishers"`
	NumberOfPages float64  `json:"number_of_pages"`
}

var yearPattern = regexp.MustCompile(`\b[0-9]{4}\b`)

// Retrieve fetches metadata for an ISBN and maps it to a CSL book item.
func (p *OpenLibraryProvider) Retrieve(ctx context.Context, identifier string) (csl.Item, error) {
	u := p.baseURL + "/isbn/" + identifier + ".json"
	var book openLibraryBook
	if err := p.client.getJSON(ctx, u, "application/json", &book); err != nil {
		return nil, err
	}
	item := csl.Item{
		"type": "book",
		"ISBN": identifier,
		"URL":  "https://openlibrary.org/isbn/" + identifier,
	}
	if book.Title != "" {
		title := book.Title
		if book.Subtitle != "" {
			title += ": " + book.Subtitle
		}
		item["title"] = title
	}
	if len(book.Publishers) > 0 {
		item["publisher"] = book.Publishers[0]
	}
	if book.NumberOfPages > 0 {
		item["number-of-pages"] = strconv.Itoa(int(book.NumberOfPages))
	}
	// Publish dates are free text, anything from "1998" to "June 1, 1998".
	if year := yearPattern.FindString(book.PublishDate); year != "" {
		y, _ := strconv.Atoi(year)
		item["issued"] = map[string]any{"date-parts": []any{[]any{float64(y)}}}
	}
	return item, nil
}
