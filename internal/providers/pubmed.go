package providers

import (
	"context"
	"net/url"

	"github.com/refmint/refmint/internal/csl"
)

const ncbiCtxpBaseURL = "https://api.ncbi.nlm.nih.gov/lit/ctxp/v1"

// PubMedProvider resolves PubMed and PubMed Central identifiers through
// the NCBI literature citation exporter.
type PubMedProvider struct {
	client   *Client
	baseURL  string
	database string
}

// NewPubMedProvider returns a provider for PubMed identifiers (PMIDs).
func NewPubMedProvider(client *Client) *PubMedProvider {
	return &PubMedProvider{client: client, baseURL: ncbiCtxpBaseURL, database: "pubmed"}
}

// NewPMCProvider returns a provider for PubMed Central identifiers (PMCIDs).
func NewPMCProvider(client *Client) *PubMedProvider {
	return &PubMedProvider{client: client, baseURL: ncbiCtxpBaseURL, database: "pmc"}
}

// Retrieve fetches CSL JSON metadata for a PMID or PMCID.
func (p *PubMedProvider) Retrieve(ctx context.Context, identifier string) (csl.Item, error) {
	params := url.Values{}
	params.Set("format", "csl")
	params.Set("id", identifier)
	if p.client.ncbiAPIKey != "" {
		params.Set("api_key", p.client.ncbiAPIKey)
	}
	u := p.baseURL + "/" + p.database + "/?" + params.Encode()
	var mapping map[string]any
	if err := p.client.getJSON(ctx, u, "application/json", &mapping); err != nil {
		return nil, err
	}
	item := csl.Item(mapping)
	// The exporter sets id to the bare identifier. Drop it so the standard
	// citekey machinery assigns ids consistently across providers.
	delete(item, "id")
	return item, nil
}
