// Package csl represents CSL JSON items and reconciles their identifiers
// with standardized citekeys.
package csl

import (
	"fmt"
	"strconv"

	"github.com/refmint/refmint/internal/schema"
)

// Item is a single CSL JSON item: a flexible mapping constrained by the
// CSL-Data schema rather than a fixed struct, since upstream registries
// attach arbitrary fields.
type Item map[string]any

// typeRemap maps item types emitted by upstream registries (Crossref,
// DataCite) to their schema-valid CSL equivalents.
var typeRemap = map[string]string{
	"journal-article":     "article-journal",
	"book-chapter":        "chapter",
	"posted-content":      "manuscript",
	"proceedings-article": "paper-conference",
	"standard":            "entry",
	"reference-entry":     "entry",
}

// ID returns the item's id field as a string, or "" when absent. Numeric
// ids (permitted by the schema) are formatted as their decimal value.
func (item Item) ID() string {
	switch id := item["id"].(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

// Type returns the item's type field, or "" when absent or non-string.
func (item Item) Type() string {
	t, _ := item["type"].(string)
	return t
}

// FixType remaps a known non-CSL type to its CSL equivalent in place.
// Unrecognized types pass through unchanged.
func (item Item) FixType() Item {
	if mapped, ok := typeRemap[item.Type()]; ok {
		item["type"] = mapped
	}
	return item
}

// Reconcile normalizes an item so it conforms to the CSL-Data schema:
// the id is overwritten with canonicalID when non-empty, known non-CSL
// types are remapped, schema-violating fields are pruned when prune is
// set, and a missing type defaults to "entry". With pruning enabled the
// final item is re-validated and residual invalidity is returned as an
// error, since pruning is expected to guarantee validity.
func (item Item) Reconcile(canonicalID string, prune bool) (Item, error) {
	if canonicalID != "" {
		item["id"] = canonicalID
	}
	item.FixType()

	if prune {
		pruned, err := schema.Prune([]any{map[string]any(item)}, schema.PruneOptions{})
		if err != nil {
			return item, fmt.Errorf("pruning CSL item %q: %w", item.ID(), err)
		}
		if collection, ok := pruned.([]any); ok && len(collection) == 1 {
			if mapping, ok := collection[0].(map[string]any); ok {
				item = Item(mapping)
			}
		}
	}

	if _, ok := item["type"]; !ok {
		item["type"] = "entry"
	}

	if prune {
		if err := schema.Validate([]any{map[string]any(item)}); err != nil {
			return item, fmt.Errorf("CSL item %q still invalid after pruning: %w", item.ID(), err)
		}
	}
	return item, nil
}
