// Package bibliography loads CSL items from bibliography files and merges
// manual reference collections keyed by standard citekey.
package bibliography

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/refmint/refmint"
	"github.com/refmint/refmint/internal/citekey"
	"github.com/refmint/refmint/internal/csl"
)

// Load reads the CSL items in a bibliography file, dispatching on the file
// extension (.json, .yaml, .yml). Read and parse failures are logged and
// yield an empty slice rather than an error, so one bad file cannot abort
// a batch load.
func Load(path string) []csl.Item {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("load bibliography: reading %q: %v", path, err)
		return nil
	}

	var raw []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			log.Errorf("load bibliography: parsing %q: %v", path, err)
			return nil
		}
	case ".yaml", ".yml":
		raw, err = decodeYAML(data)
		if err != nil {
			log.Errorf("load bibliography: parsing %q: %v", path, err)
			return nil
		}
	default:
		log.Errorf("load bibliography: unsupported file extension for %q", path)
		return nil
	}

	items := make([]csl.Item, 0, len(raw))
	for _, mapping := range raw {
		items = append(items, csl.Item(mapping))
	}
	return items
}

// decodeYAML parses a YAML bibliography and normalizes it through a JSON
// round trip, so downstream schema validation sees the same scalar types
// as JSON-loaded data.
func decodeYAML(data []byte) ([]map[string]any, error) {
	var intermediate []map[string]any
	if err := yaml.Unmarshal(data, &intermediate); err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(intermediate)
	if err != nil {
		return nil, fmt.Errorf("normalizing YAML items: %w", err)
	}
	var items []map[string]any
	if err := json.Unmarshal(normalized, &items); err != nil {
		return nil, fmt.Errorf("normalizing YAML items: %w", err)
	}
	return items, nil
}

// LoadManualReferences reads manual reference overrides from bibliography
// files and returns a standard citekey to CSL item mapping. extraItems are
// already-parsed records appended after all files, so they and later-listed
// files take precedence for a colliding citekey. Items for which no
// standard citekey can be determined are logged and skipped.
func LoadManualReferences(paths []string, extraItems []csl.Item) map[string]csl.Item {
	var items []csl.Item
	seen := make(map[string]bool)
	for _, path := range paths {
		if seen[path] {
			continue
		}
		seen[path] = true
		for _, item := range Load(path) {
			item.NoteAppendText(fmt.Sprintf(
				"This CSL JSON Item was loaded by %s v%s from a manual reference file.",
				refmint.AppName, refmint.Version))
			item.NoteAppendDict(map[string]string{
				"manual_reference_filename": filepath.Base(path),
			})
			items = append(items, item)
		}
	}
	items = append(items, extraItems...)

	references := make(map[string]csl.Item)
	for _, item := range items {
		if err := item.SetStandardID(); err != nil {
			log.Warnf("skipping manual reference with no resolvable standard id: %v", err)
			continue
		}
		standardID := item.ID()
		reconciled, err := item.Reconcile(citekey.Shorten(standardID), true)
		if err != nil {
			log.Warnf("skipping manual reference %q: %v", standardID, err)
			continue
		}
		references[standardID] = reconciled
	}
	return references
}
