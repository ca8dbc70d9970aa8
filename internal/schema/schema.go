// Package schema validates CSL JSON data against the CSL-Data JSON Schema
// and repairs invalid instances by pruning offending substructure.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// cslDataSchema is a pinned copy of the CSL-Data JSON Schema, embedded at
// build time so validation carries no network dependency.
//
//go:embed csl-data.json
var cslDataSchema []byte

const schemaResource = "csl-data.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	rawSchema   map[string]any
	compileErr  error
)

// validator returns the process-wide compiled CSL-Data schema. Compilation
// happens once; concurrent callers share the immutable result.
func validator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		if err := json.Unmarshal(cslDataSchema, &rawSchema); err != nil {
			compileErr = fmt.Errorf("decoding embedded CSL schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaResource, bytes.NewReader(cslDataSchema)); err != nil {
			compileErr = fmt.Errorf("adding CSL schema resource: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaResource)
	})
	return compiled, compileErr
}

// Validate checks instance (a decoded CSL JSON array) against the CSL-Data
// schema. It returns nil when the instance validates.
func Validate(instance any) error {
	schema, err := validator()
	if err != nil {
		return err
	}
	return schema.Validate(instance)
}

// IsValid reports whether instance validates against the CSL-Data schema.
func IsValid(instance any) bool {
	return Validate(instance) == nil
}

// pointerTokens splits a JSON Pointer into its reference tokens,
// unescaping ~1 and ~0.
func pointerTokens(pointer string) []string {
	if pointer == "" || pointer == "/" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	tokens := make([]string, len(parts))
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		tokens[i] = part
	}
	return tokens
}

// deepGet descends path from root and returns the element there, or nil
// when the path does not resolve.
func deepGet(root any, path []string) any {
	current := root
	for _, token := range path {
		switch node := current.(type) {
		case map[string]any:
			var ok bool
			if current, ok = node[token]; !ok {
				return nil
			}
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

// deleteAt removes the element at path and returns the (possibly new)
// root. Map deletions mutate in place; removing a slice element produces
// a new slice header that is reassigned into the parent container.
func deleteAt(root any, path []string) any {
	if len(path) == 0 {
		return root
	}
	head, rest := path[0], path[1:]

	switch node := root.(type) {
	case map[string]any:
		if len(rest) == 0 {
			delete(node, head)
			return node
		}
		if child, ok := node[head]; ok {
			node[head] = deleteAt(child, rest)
		}
		return node
	case []any:
		index, err := strconv.Atoi(head)
		if err != nil || index < 0 || index >= len(node) {
			return node
		}
		if len(rest) == 0 {
			return append(node[:index], node[index+1:]...)
		}
		node[index] = deleteAt(node[index], rest)
		return node
	default:
		return root
	}
}

// deepCopy duplicates a decoded JSON tree.
func deepCopy(value any) any {
	switch node := value.(type) {
	case map[string]any:
		copied := make(map[string]any, len(node))
		for key, child := range node {
			copied[key] = deepCopy(child)
		}
		return copied
	case []any:
		copied := make([]any, len(node))
		for i, child := range node {
			copied[i] = deepCopy(child)
		}
		return copied
	default:
		return value
	}
}
