package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/refmint/refmint/internal/csl"
)

// cslJSONMediaType selects CSL JSON via content negotiation on doi.org.
const cslJSONMediaType = "application/vnd.citationstyles.csl+json"

// DOIProvider resolves DOIs through doi.org content negotiation.
type DOIProvider struct {
	client  *Client
	baseURL string
}

// NewDOIProvider returns a DOIProvider backed by client.
func NewDOIProvider(client *Client) *DOIProvider {
	return &DOIProvider{client: client, baseURL: "https://doi.org"}
}

// Retrieve fetches CSL JSON metadata for a DOI.
func (p *DOIProvider) Retrieve(ctx context.Context, identifier string) (csl.Item, error) {
	var mapping map[string]any
	u := p.baseURL + "/" + identifier
	if err := p.client.getJSON(ctx, u, cslJSONMediaType, &mapping); err != nil {
		return nil, err
	}
	item := csl.Item(mapping)
	item["URL"] = "https://doi.org/" + identifier
	return item, nil
}

// handleResponse is the subset of the handle system API response needed to
// resolve a short DOI to its aliased full DOI.
type handleResponse struct {
	ResponseCode int `json:"responseCode"`
	Values       []struct {
		Type string `json:"type"`
		Data struct {
			Value string `json:"value"`
		} `json:"data"`
	} `json:"values"`
}

// ExpandShortDOI resolves a short DOI such as "10/b6vnmd" to the full DOI
// it aliases.
func (c *Client) ExpandShortDOI(identifier string) (string, error) {
	if !strings.HasPrefix(identifier, "10/") {
		return "", fmt.Errorf("%q is not a short DOI", identifier)
	}
	u := c.handleBaseURL + "/" + identifier + "?type=HS_ALIAS"
	var handle handleResponse
	if err := c.getJSON(context.Background(), u, "", &handle); err != nil {
		return "", err
	}
	for _, value := range handle.Values {
		if value.Type == "HS_ALIAS" && value.Data.Value != "" {
			return value.Data.Value, nil
		}
	}
	return "", fmt.Errorf("no HS_ALIAS handle value for %q", identifier)
}
