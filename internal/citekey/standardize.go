package citekey

import (
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/refmint/refmint/internal/isbn"
)

// ShortDOIExpander resolves a shortDOI identifier (e.g. 10/b6vnmd) to its
// full DOI form. Expansion failures are non-fatal: standardization keeps
// the unexpanded identifier and defers the failure to metadata retrieval.
type ShortDOIExpander func(identifier string) (string, error)

// Standardizer converts citekeys to their canonical form. Results are
// memoized by exact input, so a Standardizer is cheap to call repeatedly
// and safe to share across goroutines.
type Standardizer struct {
	// ExpandShortDOI, when set, resolves shortDOI identifiers. Set it
	// before the first Standardize call.
	ExpandShortDOI ShortDOIExpander

	mu    sync.Mutex
	cache map[string]string
}

// Default is the process-wide Standardizer used by the package-level
// Standardize function.
var Default = &Standardizer{}

// Standardize returns the canonical form of ck using the Default
// standardizer.
func Standardize(ck string) string {
	return Default.Standardize(ck, false)
}

// Standardize returns the canonical form of ck: shortDOIs expanded and DOI
// identifiers lowercased, ISBNs normalized to ISBN-13, all other sources
// passed through unchanged. When warnIfChanged is set, a warning is logged
// if the output differs from the input (the caller expected ck to already
// be standardized).
func (s *Standardizer) Standardize(ck string, warnIfChanged bool) string {
	s.mu.Lock()
	if s.cache == nil {
		s.cache = make(map[string]string)
	}
	standard, ok := s.cache[ck]
	s.mu.Unlock()

	if !ok {
		standard = s.standardize(ck)
		s.mu.Lock()
		s.cache[ck] = standard
		s.mu.Unlock()
	}

	if warnIfChanged && standard != ck {
		log.Warnf("Standardize expected citekey to already be standardized: changed %q to %q", ck, standard)
	}
	return standard
}

func (s *Standardizer) standardize(ck string) string {
	source, identifier, ok := Split(ck)
	if !ok {
		return ck
	}

	switch source {
	case SourceDOI:
		if strings.HasPrefix(identifier, "10/") {
			if s.ExpandShortDOI == nil {
				log.Debugf("no shortDOI expander configured: keeping %q unexpanded", identifier)
			} else if full, err := s.ExpandShortDOI(identifier); err != nil {
				// Metadata lookup for the unexpanded identifier will
				// eventually fail with its own error handling.
				log.Errorf("expanding shortDOI %q: %v", identifier, err)
			} else {
				identifier = full
			}
		}
		identifier = strings.ToLower(identifier)

	case SourceISBN:
		if isbn13, err := isbn.To13(identifier); err != nil {
			log.Warnf("standardizing isbn citekey %q: %v", ck, err)
		} else {
			identifier = isbn13
		}
	}

	return string(source) + ":" + identifier
}
