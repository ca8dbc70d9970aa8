// Package citekey parses, validates, standardizes, and shortens citation
// identifiers of the form source:identifier (e.g. doi:10.7554/elife.32822).
package citekey

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/refmint/refmint/internal/isbn"
)

// Source identifies the registry a citation identifier belongs to.
type Source string

// The closed set of citekey sources.
const (
	SourceDOI      Source = "doi"
	SourcePMID     Source = "pmid"
	SourcePMCID    Source = "pmcid"
	SourceArxiv    Source = "arxiv"
	SourceISBN     Source = "isbn"
	SourceWikidata Source = "wikidata"
	SourceURL      Source = "url"

	// SourceRaw marks manual references whose identifier carries no
	// retrievable metadata. SourceTag marks indirection through a tag table.
	SourceRaw Source = "raw"
	SourceTag Source = "tag"
)

// retrievalSources are the sources for which metadata can be retrieved from
// an external registry based on the identifier alone.
var retrievalSources = map[Source]bool{
	SourceDOI:      true,
	SourcePMID:     true,
	SourcePMCID:    true,
	SourceArxiv:    true,
	SourceISBN:     true,
	SourceWikidata: true,
	SourceURL:      true,
}

// RetrievalSources returns the sources with a bound metadata provider,
// in stable order.
func RetrievalSources() []Source {
	sources := make([]Source, 0, len(retrievalSources))
	for source := range retrievalSources {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

// pandocXnosPrefixes are non-citation reference types used by the
// pandoc-fignos/tablenos/eqnos filters.
var pandocXnosPrefixes = map[string]bool{"fig": true, "tbl": true, "eq": true}

var identifierPatterns = map[Source]*regexp.Regexp{
	SourcePMID:     regexp.MustCompile(`^[1-9][0-9]{0,7}$`),
	SourcePMCID:    regexp.MustCompile(`^PMC[0-9]+$`),
	SourceDOI:      regexp.MustCompile(`^10\.[0-9]{4,9}/\S+$`),
	SourceWikidata: regexp.MustCompile(`^Q[0-9]+$`),
}

// shortDOIPattern matches shortDOI identifiers, see http://shortdoi.org.
var shortDOIPattern = regexp.MustCompile(`^10/[a-zA-Z0-9]+$`)

// Split separates a citekey into source and identifier at the first colon.
// ok is false when the citekey contains no colon.
func Split(ck string) (source Source, identifier string, ok bool) {
	s, id, ok := strings.Cut(ck, ":")
	return Source(s), id, ok
}

// ValidateOptions widens the set of citekey sources IsValid accepts.
type ValidateOptions struct {
	// AllowTag accepts tag citekeys (e.g. tag:deep-review).
	AllowTag bool
	// AllowRaw accepts raw citekeys (e.g. raw:manual-reference).
	AllowRaw bool
	// AllowPandocXnos silently rejects pandoc-xnos reference types
	// (e.g. fig:my-figure) instead of logging them as errors.
	AllowPandocXnos bool
}

// IsValid reports whether ck is a properly formatted citekey. Invalid
// citekeys are logged rather than returned as errors. The checks are
// cursory and syntactic: no external resource is consulted, so citekeys
// for non-existent identifiers pass as long as they satisfy their
// source's syntax.
func IsValid(ck string, opts ValidateOptions) bool {
	if strings.HasPrefix(ck, "@") {
		log.Errorf("invalid citekey %q: starts with '@'", ck)
		return false
	}
	source, identifier, ok := Split(ck)
	if !ok {
		log.Errorf("citekey %q is not splittable via a colon: citekeys must be in the format source:identifier", ck)
		return false
	}
	if source == "" || identifier == "" {
		log.Errorf("invalid citekey %q: blank source or identifier", ck)
		return false
	}

	if opts.AllowPandocXnos {
		if pandocXnosPrefixes[string(source)] {
			return false
		}
		if lower := strings.ToLower(string(source)); pandocXnosPrefixes[lower] {
			log.Errorf("pandoc-xnos reference types should be all lowercase: should %q use %q rather than %q?",
				ck, lower, source)
			return false
		}
	}

	if !sourceAllowed(source, opts) {
		if lower := Source(strings.ToLower(string(source))); sourceAllowed(lower, opts) {
			log.Errorf("citekey sources should be all lowercase: should %q use %q rather than %q?",
				ck, lower, source)
		} else {
			log.Errorf("invalid citekey %q: source %q is not valid; valid sources are {%s}",
				ck, source, strings.Join(allowedSourceNames(opts), ", "))
		}
		return false
	}

	if diagnostic := Inspect(ck); diagnostic != "" {
		log.Errorf("invalid %s citekey %s: %s", source, ck, diagnostic)
		return false
	}
	return true
}

func sourceAllowed(source Source, opts ValidateOptions) bool {
	if retrievalSources[source] {
		return true
	}
	if opts.AllowRaw && source == SourceRaw {
		return true
	}
	if opts.AllowTag && source == SourceTag {
		return true
	}
	return false
}

func allowedSourceNames(opts ValidateOptions) []string {
	names := make([]string, 0, len(retrievalSources)+2)
	for _, source := range RetrievalSources() {
		names = append(names, string(source))
	}
	if opts.AllowRaw {
		names = append(names, string(SourceRaw))
	}
	if opts.AllowTag {
		names = append(names, string(SourceTag))
	}
	sort.Strings(names)
	return names
}

// Inspect checks that a citekey's identifier adheres to its source's
// expected format. It returns a diagnostic describing the problem, or the
// empty string when no issue is detected.
func Inspect(ck string) string {
	source, identifier, ok := Split(ck)
	if !ok {
		return "citekey must contain a colon separating source from identifier"
	}

	switch source {
	case SourcePMID:
		// https://www.nlm.nih.gov/bsd/mms/medlineelements.html#pmid
		if strings.HasPrefix(identifier, "PMC") {
			return fmt.Sprintf(
				"PubMed Identifiers should start with digits rather than PMC: should %s switch the citation source to pmcid?", ck)
		}
		if !identifierPatterns[SourcePMID].MatchString(identifier) {
			return "PubMed Identifiers should be 1-8 digits with no leading zeros"
		}

	case SourcePMCID:
		// https://www.nlm.nih.gov/bsd/mms/medlineelements.html#pmc
		if !strings.HasPrefix(identifier, "PMC") {
			return "PubMed Central Identifiers must start with PMC"
		}
		if !identifierPatterns[SourcePMCID].MatchString(identifier) {
			return "identifier does not conform to the PMCID regex: double check the PMCID"
		}

	case SourceDOI:
		switch {
		case strings.HasPrefix(identifier, "10."):
			// https://www.crossref.org/blog/dois-and-matching-regular-expressions/
			if !identifierPatterns[SourceDOI].MatchString(identifier) {
				return "identifier does not conform to the DOI regex: double check the DOI"
			}
		case strings.HasPrefix(identifier, "10/"):
			if !shortDOIPattern.MatchString(identifier) {
				return "identifier does not conform to the shortDOI regex: double check the shortDOI"
			}
		default:
			return "DOIs must start with 10. (or 10/ for shortDOIs)"
		}

	case SourceISBN:
		if !isbn.IsValid(identifier) {
			return fmt.Sprintf("identifier %q violates the ISBN syntax", identifier)
		}

	case SourceWikidata:
		// https://www.wikidata.org/wiki/Wikidata:Identifiers
		if !strings.HasPrefix(identifier, "Q") {
			return "Wikidata item IDs must start with Q"
		}
		if !identifierPatterns[SourceWikidata].MatchString(identifier) {
			return "identifier does not conform to the Wikidata regex: double check the entity ID"
		}
	}

	return ""
}

// InferPrefix passes ck through if it already starts with a retrieval
// source or raw prefix, lowercases a case-mismatched prefix, and otherwise
// assumes the citekey is raw and prepends "raw:". Tag prefixes are not
// recognized here: a tag: id names a manual reference, so it is coerced to
// raw:tag:... like any other opaque id.
func InferPrefix(ck string) string {
	sources := append(RetrievalSources(), SourceRaw)
	for _, source := range sources {
		prefix := string(source) + ":"
		if strings.HasPrefix(ck, prefix) {
			return ck
		}
		if strings.HasPrefix(strings.ToLower(ck), prefix) {
			return prefix + ck[len(prefix):]
		}
	}
	return string(SourceRaw) + ":" + ck
}
