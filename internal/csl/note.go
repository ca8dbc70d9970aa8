package csl

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// The note field embeds auxiliary key-value metadata using the CSL JSON
// "cheater syntax": either "key: value" on its own line, or "{:key: value}"
// inline.
// https://citeproc-js.readthedocs.io/en/latest/csl-json/markup.html#cheater-syntax-for-odd-fields
var (
	noteKeyPattern   = regexp.MustCompile(`^(?:[A-Z]+|[-_a-z]+)$`)
	noteLinePattern  = regexp.MustCompile(`(?m)^([A-Z]+|[-_a-z]+): *(.+?) *$`)
	noteBracePattern = regexp.MustCompile(`\{:([A-Z]+|[-_a-z]+): *(.+?) *\}`)
)

// Note returns the item's note text. An absent, nil, or non-string note is
// treated as the empty string.
func (item Item) Note() string {
	switch note := item["note"].(type) {
	case string:
		return note
	case nil:
		return ""
	default:
		return fmt.Sprint(note)
	}
}

// NoteDict returns the key-value pairs embedded in the item's note.
func (item Item) NoteDict() map[string]string {
	return ParseNote(item.Note())
}

// NoteAppendText appends free text to the item's note, separating it from
// existing content with a newline.
func (item Item) NoteAppendText(text string) {
	note := item.Note()
	if text != "" {
		if note != "" && !strings.HasSuffix(note, "\n") {
			note += "\n"
		}
		note += text
	}
	if note != "" {
		item["note"] = note
	}
}

// NoteAppendDict appends key-value pairs to the item's note in line form,
// one per line, in sorted key order. Entries whose key violates the
// variable-name syntax or whose value contains a newline are skipped with
// a warning. Appending never rewrites existing note content.
func (item Item) NoteAppendDict(dictionary map[string]string) {
	note := item.Note()
	keys := make([]string, 0, len(dictionary))
	for key := range dictionary {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !noteKeyPattern.MatchString(key) {
			log.Warnf("NoteAppendDict: skipping %q because it does not conform to the variable-name syntax", key)
			continue
		}
		value := dictionary[key]
		if strings.Contains(value, "\n") {
			log.Warnf("NoteAppendDict: skipping %q because the value contains a newline: %q", key, value)
			continue
		}
		if note != "" && !strings.HasSuffix(note, "\n") {
			note += "\n"
		}
		note += key + ": " + value
	}
	if note != "" {
		item["note"] = note
	}
}

// ParseNote extracts the key-value pairs embedded in a note. Line-form
// entries are collected first, then brace-form entries, so a brace-form
// entry wins on key collision.
func ParseNote(note string) map[string]string {
	dictionary := make(map[string]string)
	for _, match := range noteLinePattern.FindAllStringSubmatch(note, -1) {
		dictionary[match[1]] = match[2]
	}
	for _, match := range noteBracePattern.FindAllStringSubmatch(note, -1) {
		dictionary[match[1]] = match[2]
	}
	return dictionary
}
