package csl

import (
	"errors"
	"fmt"

	"github.com/refmint/refmint/internal/citekey"
)

// ErrNoStandardID indicates that no citekey could be determined for an
// item: it lacks a standard_citation field, a standard_id note entry, and
// an id field.
var ErrNoStandardID = errors.New(
	"could not detect a field with a citation: consider setting the CSL item id field")

// SetStandardID determines the standard citekey for an item and rewrites
// the item in place so its id carries that citekey.
//
// The citekey is extracted from, in increasing priority: the id field
// (with a source prefix inferred, assuming raw when none matches), a
// standard_id entry already embedded in the note, or a standard_citation
// field (which is removed). The extracted value (the original_standard_id)
// is validated and standardized to the final standard_id, and the note is
// updated with the provenance entries original_id, original_standard_id,
// and standard_id where they differ from the standard_id and from what the
// note already records. Calling SetStandardID again on the result is a
// no-op.
func (item Item) SetStandardID() error {
	noteDict := item.NoteDict()

	originalID := item.ID()
	var originalStandardID string
	if originalID != "" {
		originalStandardID = citekey.InferPrefix(originalID)
	}
	if fromNote, ok := noteDict["standard_id"]; ok {
		originalStandardID = fromNote
	}
	if fromField, ok := item["standard_citation"]; ok {
		if citation, ok := fromField.(string); ok && citation != "" {
			originalStandardID = citation
		}
		delete(item, "standard_citation")
	}
	if originalStandardID == "" {
		return ErrNoStandardID
	}

	// A failure here indicates a defect in prefix inference, not bad
	// user input.
	if !citekey.IsValid(originalStandardID, citekey.ValidateOptions{AllowRaw: true}) {
		return fmt.Errorf("extracted citekey %q for item %q is not valid", originalStandardID, originalID)
	}
	standardID := citekey.Standardize(originalStandardID)

	addToNote := make(map[string]string)
	if originalID != "" && originalID != standardID && originalID != noteDict["original_id"] {
		addToNote["original_id"] = originalID
	}
	if originalStandardID != standardID && originalStandardID != noteDict["original_standard_id"] {
		addToNote["original_standard_id"] = originalStandardID
	}
	if standardID != noteDict["standard_id"] {
		addToNote["standard_id"] = standardID
	}
	item.NoteAppendDict(addToNote)
	item["id"] = standardID
	return nil
}
