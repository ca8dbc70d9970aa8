package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxDepth is the number of additional repair passes Prune makes
// after the first, before returning a best-effort result.
const DefaultMaxDepth = 5

// UnsupportedRepairError reports a schema violation kind that Prune does
// not know how to repair by deletion. It is surfaced as a hard error so an
// unhandled violation never silently corrupts metadata.
type UnsupportedRepairError struct {
	Keyword string
	Message string
}

func (e *UnsupportedRepairError) Error() string {
	return fmt.Sprintf("no repair implemented for %q schema violations: %s", e.Keyword, e.Message)
}

// PruneOptions configures Prune.
type PruneOptions struct {
	// MaxDepth bounds the number of repair passes after the first.
	// Zero means DefaultMaxDepth.
	MaxDepth int
	// InPlace mutates the given instance instead of operating on a deep
	// copy. Repeated validation of large instances is expensive, so
	// callers that own the instance can avoid the redundant copy.
	InPlace bool
}

// violation is one schema failure flattened out of the validator's error
// tree: the instance path, the violated keyword, and where in the schema
// document the keyword lives.
type violation struct {
	path      []string
	keyword   string
	schemaPtr string
	message   string
}

// Prune deletes fields of a CSL JSON instance that violate the CSL-Data
// schema, re-validating and repeating until the instance validates or the
// recursion budget is exhausted, in which case the best-effort result is
// returned without error. Violations that cannot be repaired by deletion
// of the offending element (anything beyond additionalProperties, enum,
// type, minItems, maxItems, and required) produce an
// *UnsupportedRepairError.
func Prune(instance any, opts PruneOptions) (any, error) {
	schema, err := validator()
	if err != nil {
		return instance, err
	}
	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	if !opts.InPlace {
		instance = deepCopy(instance)
	}

	for pass := 0; pass <= maxDepth; pass++ {
		err := schema.Validate(instance)
		if err == nil {
			return instance, nil
		}
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return instance, err
		}

		var violations []violation
		collectViolations(validationErr, &violations)
		// Deepest and rightmost paths first, so deleting a list element
		// never invalidates the index of a later repair.
		sort.SliceStable(violations, func(i, j int) bool {
			return comparePaths(violations[i].path, violations[j].path) > 0
		})

		// The schema reports overlapping grouping constructs, which can
		// yield the same additionalProperties failure more than once per
		// object. Track repaired paths so extras are removed only once.
		repairedAdditional := make(map[string]bool)
		for _, v := range violations {
			instance, err = repair(instance, v, repairedAdditional)
			if err != nil {
				return instance, err
			}
		}
	}
	return instance, nil
}

// collectViolations flattens the validator's error tree into leaf
// violations. Grouping nodes (anyOf branches, $ref hops, item traversals)
// carry causes and are recursed through; leaves carry the concrete
// violated keyword.
func collectViolations(err *jsonschema.ValidationError, out *[]violation) {
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			collectViolations(cause, out)
		}
		return
	}
	keywordPath := pointerTokens(err.KeywordLocation)
	keyword := ""
	if len(keywordPath) > 0 {
		keyword = keywordPath[len(keywordPath)-1]
	}
	*out = append(*out, violation{
		path:      pointerTokens(err.InstanceLocation),
		keyword:   keyword,
		schemaPtr: schemaFragment(err.AbsoluteKeywordLocation),
		message:   err.Message,
	})
}

// repair applies the removal action for a single violation and returns
// the possibly-new instance root.
func repair(instance any, v violation, repairedAdditional map[string]bool) (any, error) {
	location := "/" + strings.Join(v.path, "/")

	switch v.keyword {
	case "additionalProperties":
		if repairedAdditional[location] {
			return instance, nil
		}
		repairedAdditional[location] = true

		object, ok := deepGet(instance, v.path).(map[string]any)
		if !ok {
			// The validator pointed at the extra property itself rather
			// than its parent object.
			return deleteAt(instance, v.path), nil
		}
		declared, err := declaredProperties(v.schemaPtr)
		if err != nil {
			log.Errorf("prune: resolving declared properties for %s: %v", location, err)
			return instance, nil
		}
		var extras []string
		for key := range object {
			if !declared[key] {
				extras = append(extras, key)
			}
		}
		sort.Strings(extras)
		for _, key := range extras {
			log.Debugf("prune: removing additional property %q at %s", key, location)
			instance = deleteAt(instance, append(append([]string{}, v.path...), key))
		}
		return instance, nil

	case "enum", "type", "minItems", "maxItems":
		if len(v.path) == 0 {
			log.Warnf("prune: cannot delete the instance root: %s", v.message)
			return instance, nil
		}
		log.Debugf("prune: deleting element at %s: %s", location, v.message)
		return deleteAt(instance, v.path), nil

	case "required":
		// A missing required field cannot be repaired by deletion.
		log.Warnf("prune: required element missing at %s: %s", location, v.message)
		return instance, nil

	default:
		return instance, &UnsupportedRepairError{Keyword: v.keyword, Message: v.message}
	}
}

// declaredProperties resolves the schema location of an
// additionalProperties keyword and returns the sibling declared property
// names.
func declaredProperties(schemaPtr string) (map[string]bool, error) {
	tokens := pointerTokens(schemaPtr)
	if len(tokens) == 0 || tokens[len(tokens)-1] != "additionalProperties" {
		return nil, fmt.Errorf("unexpected schema location %q", schemaPtr)
	}
	node := schemaNodeAt(tokens[:len(tokens)-1])
	object, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema location %q is not an object", schemaPtr)
	}
	properties, ok := object["properties"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema location %q declares no properties", schemaPtr)
	}
	declared := make(map[string]bool, len(properties))
	for key := range properties {
		declared[key] = true
	}
	return declared, nil
}

// schemaNodeAt walks the raw embedded schema document along pointer tokens.
func schemaNodeAt(tokens []string) any {
	var current any = rawSchema
	for _, token := range tokens {
		switch node := current.(type) {
		case map[string]any:
			current = node[token]
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(node) {
				return nil
			}
			current = node[index]
		default:
			return nil
		}
	}
	return current
}

// schemaFragment extracts the JSON Pointer fragment of an absolute
// keyword location such as "csl-data.json#/items/additionalProperties".
func schemaFragment(location string) string {
	if i := strings.IndexByte(location, '#'); i >= 0 {
		return location[i+1:]
	}
	return location
}

// comparePaths orders instance paths lexicographically with numeric-aware
// token comparison, so /9 sorts before /10.
func comparePaths(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		ai, aerr := strconv.Atoi(a[i])
		bi, berr := strconv.Atoi(b[i])
		if aerr == nil && berr == nil {
			if ai < bi {
				return -1
			}
			return 1
		}
		if a[i] < b[i] {
			return -1
		}
		return 1
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
