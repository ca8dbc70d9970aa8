package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/refmint/refmint/internal/csl"
)

// CitoidProvider resolves Wikidata QIDs through the Wikimedia Citoid
// citation service.
type CitoidProvider struct {
	client  *Client
	baseURL string
}

// NewCitoidProvider returns a CitoidProvider backed by client.
func NewCitoidProvider(client *Client) *CitoidProvider {
	return &CitoidProvider{client: client, baseURL: "https://en.wikipedia.org"}
}

// citoidTypeRemap maps Citoid (Zotero) item types onto CSL types.
var citoidTypeRemap = map[string]string{
	"journalArticle":   "article-journal",
	"magazineArticle":  "article-magazine",
	"newspaperArticle": "article-newspaper",
	"book":             "book",
	"bookSection":      "chapter",
	"conferencePaper":  "paper-conference",
	"thesis":           "thesis",
	"report":           "report",
	"webpage":          "webpage",
	"dataset":          "dataset",
	"presentation":     "speech",
	"manuscript":       "manuscript",
}

type citoidCitation struct {
	ItemType         string   `json:"itemType"`
	Title            string   `json:"title"`
	PublicationTitle string   `json:"publicationTitle"`
	Publisher        string   `json:"publisher"`
	Date             string   `json:"date"`
	URL              string   `json:"url"`
	DOI              string   `json:"DOI"`
	ISBN             []string `json:"ISBN"`
	Creators         []struct {
		CreatorType string `json:"creatorType"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
	} `json:"creators"`
}

// Retrieve fetches citation metadata for a Wikidata QID and maps it to a
// CSL item.
func (p *CitoidProvider) Retrieve(ctx context.Context, identifier string) (csl.Item, error) {
	u := p.baseURL + "/api/rest_v1/data/citation/mediawiki/" + identifier
	var citations []citoidCitation
	if err := p.client.getJSON(ctx, u, "application/json", &citations); err != nil {
		return nil, err
	}
	if len(citations) == 0 {
		return nil, fmt.Errorf("wikidata:%s: %w", identifier, ErrNotFound)
	}
	citation := citations[0]

	itemType, ok := citoidTypeRemap[citation.ItemType]
	if !ok {
		itemType = "entry"
	}
	item := csl.Item{"type": itemType}
	if citation.Title != "" {
		item["title"] = citation.Title
	}
	if citation.PublicationTitle != "" {
		item["container-title"] = citation.PublicationTitle
	}
	if citation.Publisher != "" {
		item["publisher"] = citation.Publisher
	}
	if citation.URL != "" {
		item["URL"] = citation.URL
	}
	if citation.DOI != "" {
		item["DOI"] = strings.ToLower(citation.DOI)
	}
	if len(citation.ISBN) > 0 {
		item["ISBN"] = citation.ISBN[0]
	}
	if authors := citoidAuthors(citation); len(authors) > 0 {
		item["author"] = authors
	}
	if issued := parseCitoidDate(citation.Date); issued != nil {
		item["issued"] = issued
	}
	return item, nil
}

func citoidAuthors(citation citoidCitation) []any {
	var authors []any
	for _, creator := range citation.Creators {
		if creator.CreatorType != "author" {
			continue
		}
		author := map[string]any{}
		if creator.FirstName != "" {
			author["given"] = creator.FirstName
		}
		if creator.LastName != "" {
			author["family"] = creator.LastName
		}
		if len(author) > 0 {
			authors = append(authors, author)
		}
	}
	return authors
}

// parseCitoidDate maps a full or partial ISO date to a CSL date variable.
func parseCitoidDate(date string) map[string]any {
	if date == "" {
		return nil
	}
	var parts []any
	for i, field := range strings.SplitN(date, "-", 3) {
		n, err := strconv.Atoi(field)
		if err != nil || (i == 0 && len(field) != 4) {
			break
		}
		parts = append(parts, float64(n))
	}
	if len(parts) == 0 {
		return nil
	}
	return map[string]any{"date-parts": []any{parts}}
}
