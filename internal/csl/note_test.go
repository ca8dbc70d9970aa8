package csl

import (
	"reflect"
	"testing"
)

func TestParseNote(t *testing.T) {
	tests := []struct {
		name string
		note string
		want map[string]string
	}{
		{
			name: "empty",
			note: "",
			want: map[string]string{},
		},
		{
			name: "line form",
			note: "standard_id: doi:10.7554/elife.32822\noriginal_id: my-id",
			want: map[string]string{
				"standard_id": "doi:10.7554/elife.32822",
				"original_id": "my-id",
			},
		},
		{
			name: "brace form",
			note: "Mixed free text {:standard_id: pmid:29618526} trailing",
			want: map[string]string{"standard_id": "pmid:29618526"},
		},
		{
			name: "brace form wins on collision",
			note: "key: line-value\n{:key: brace-value}",
			want: map[string]string{"key": "brace-value"},
		},
		{
			name: "uppercase keys allowed",
			note: "PMID: 29618526",
			want: map[string]string{"PMID": "29618526"},
		},
		{
			name: "mixed-case keys are not entries",
			note: "BadKey: value",
			want: map[string]string{},
		},
		{
			name: "surrounding spaces trimmed",
			note: "key:   padded value  ",
			want: map[string]string{"key": "padded value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseNote(tt.note); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseNote(%q) = %v, want %v", tt.note, got, tt.want)
			}
		})
	}
}

func TestNoteAppendDict_RoundTrip(t *testing.T) {
	dictionary := map[string]string{
		"standard_id":  "doi:10.7554/elife.32822",
		"original_id":  "my-id",
		"manual-entry": "yes",
		"CAPS":         "ok",
	}

	item := Item{}
	item.NoteAppendDict(dictionary)
	if got := item.NoteDict(); !reflect.DeepEqual(got, dictionary) {
		t.Errorf("round trip = %v, want %v", got, dictionary)
	}
}

func TestNoteAppendDict_SkipsInvalidEntries(t *testing.T) {
	item := Item{}
	item.NoteAppendDict(map[string]string{
		"good":     "kept",
		"Bad-Key":  "skipped",
		"newline_": "has\nnewline",
	})

	want := map[string]string{"good": "kept"}
	if got := item.NoteDict(); !reflect.DeepEqual(got, want) {
		t.Errorf("NoteDict = %v, want %v", got, want)
	}
}

func TestNoteAppendDict_AppendOnly(t *testing.T) {
	item := Item{"note": "Some existing prose."}
	item.NoteAppendDict(map[string]string{"standard_id": "pmid:1"})

	if got, want := item.Note(), "Some existing prose.\nstandard_id: pmid:1"; got != want {
		t.Errorf("note = %q, want %q", got, want)
	}

	// A second append adds a new line rather than rewriting the old one.
	item.NoteAppendDict(map[string]string{"standard_id": "pmid:2"})
	if got, want := item.Note(), "Some existing prose.\nstandard_id: pmid:1\nstandard_id: pmid:2"; got != want {
		t.Errorf("note = %q, want %q", got, want)
	}
	// Last write wins on decode.
	if got := item.NoteDict()["standard_id"]; got != "pmid:2" {
		t.Errorf("standard_id = %q, want pmid:2", got)
	}
}

func TestNoteAppendText(t *testing.T) {
	item := Item{}
	item.NoteAppendText("")
	if _, ok := item["note"]; ok {
		t.Error("empty append should leave note unset")
	}

	item.NoteAppendText("Generated entry.")
	item.NoteAppendText("Second line.")
	if got, want := item.Note(), "Generated entry.\nSecond line."; got != want {
		t.Errorf("note = %q, want %q", got, want)
	}
}

func TestNote_AbsentAndNonString(t *testing.T) {
	if got := (Item{}).Note(); got != "" {
		t.Errorf("absent note = %q, want empty", got)
	}
	if got := (Item{"note": nil}).Note(); got != "" {
		t.Errorf("nil note = %q, want empty", got)
	}
	if got := (Item{"note": 12.0}).Note(); got != "12" {
		t.Errorf("numeric note = %q, want coerced string", got)
	}
}
