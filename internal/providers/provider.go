package providers

import (
	"context"
	"fmt"

	"github.com/refmint/refmint/internal/citekey"
	"github.com/refmint/refmint/internal/csl"
)

// Retriever fetches bibliographic metadata for a single identifier and
// returns it as a CSL item.
type Retriever interface {
	Retrieve(ctx context.Context, identifier string) (csl.Item, error)
}

// Registry maps citekey sources to their metadata providers.
type Registry struct {
	client   *Client
	bySource map[citekey.Source]Retriever
}

// NewRegistry returns a Registry with the default provider for every
// retrievable source, all sharing client.
func NewRegistry(client *Client) *Registry {
	return &Registry{
		client: client,
		bySource: map[citekey.Source]Retriever{
			citekey.SourceDOI:      NewDOIProvider(client),
			citekey.SourcePMID:     NewPubMedProvider(client),
			citekey.SourcePMCID:    NewPMCProvider(client),
			citekey.SourceArxiv:    NewArxivProvider(client),
			citekey.SourceISBN:     NewOpenLibraryProvider(client),
			citekey.SourceWikidata: NewCitoidProvider(client),
			citekey.SourceURL:      NewURLProvider(client),
		},
	}
}

// For returns the provider bound to source, if any.
func (r *Registry) For(source citekey.Source) (Retriever, bool) {
	p, ok := r.bySource[source]
	return p, ok
}

// Retrieve splits a standard citekey and dispatches to the provider for
// its source.
func (r *Registry) Retrieve(ctx context.Context, standardID string) (csl.Item, error) {
	source, identifier, ok := citekey.Split(standardID)
	if !ok {
		return nil, fmt.Errorf("citekey %q has no source prefix: %w", standardID, ErrUnsupportedSource)
	}
	p, ok := r.bySource[source]
	if !ok {
		return nil, fmt.Errorf("%q: %w", source, ErrUnsupportedSource)
	}
	item, err := p.Retrieve(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", standardID, err)
	}
	return item, nil
}
