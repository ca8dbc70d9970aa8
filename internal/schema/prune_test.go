package schema

import (
	"encoding/json"
	"reflect"
	"testing"
)

// decode parses a JSON literal into the tree form the validator expects.
func decode(t *testing.T, text string) any {
	t.Helper()
	var instance any
	if err := json.Unmarshal([]byte(text), &instance); err != nil {
		t.Fatalf("decoding test instance: %v", err)
	}
	return instance
}

func TestValidate(t *testing.T) {
	valid := decode(t, `[
		{
			"id": "abc123xyz",
			"type": "article-journal",
			"title": "An interesting result",
			"author": [{"family": "Smith", "given": "Jane"}],
			"issued": {"date-parts": [[2018, 4, 5]]},
			"DOI": "10.7554/elife.32822"
		}
	]`)
	if err := Validate(valid); err != nil {
		t.Errorf("Validate(valid) = %v, want nil", err)
	}

	invalid := decode(t, `[{"type": "article-journal", "bogus_field": "x"}]`)
	if err := Validate(invalid); err == nil {
		t.Error("Validate(invalid) = nil, want error")
	}
	if IsValid(invalid) {
		t.Error("IsValid(invalid) = true")
	}
}

func TestPrune_ValidInstanceUnchanged(t *testing.T) {
	instance := decode(t, `[{"id": "a", "type": "book", "title": "My book"}]`)
	want := decode(t, `[{"id": "a", "type": "book", "title": "My book"}]`)

	pruned, err := Prune(instance, PruneOptions{})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if !reflect.DeepEqual(pruned, want) {
		t.Errorf("Prune changed a valid instance: %v", pruned)
	}
}

func TestPrune_RemovesAdditionalProperties(t *testing.T) {
	instance := decode(t, `[
		{
			"id": "a",
			"type": "article-journal",
			"title": "Kept",
			"bogus_field": "dropped",
			"another_bogus": 7
		}
	]`)

	pruned, err := Prune(instance, PruneOptions{})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	item := pruned.([]any)[0].(map[string]any)
	if _, ok := item["bogus_field"]; ok {
		t.Error("bogus_field not removed")
	}
	if _, ok := item["another_bogus"]; ok {
		t.Error("another_bogus not removed")
	}
	if item["title"] != "Kept" {
		t.Errorf("title = %v, want Kept", item["title"])
	}
	if !IsValid(pruned) {
		t.Errorf("pruned instance still invalid: %v", Validate(pruned))
	}
}

func TestPrune_RemovesBadTypeValue(t *testing.T) {
	instance := decode(t, `[{"id": "a", "type": "made-up-type", "title": "T"}]`)

	pruned, err := Prune(instance, PruneOptions{})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	item := pruned.([]any)[0].(map[string]any)
	// The enum violation deletes the type field; the resulting missing
	// required field is unrepairable by pruning and is left for the
	// caller (the reconciler defaults the type afterwards).
	if _, ok := item["type"]; ok {
		t.Errorf("type = %v, want removed", item["type"])
	}
	if item["title"] != "T" {
		t.Errorf("title = %v, want T", item["title"])
	}
}

func TestPrune_RemovesWrongScalarType(t *testing.T) {
	instance := decode(t, `[{"id": "a", "type": "webpage", "note": 12}]`)

	pruned, err := Prune(instance, PruneOptions{})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	item := pruned.([]any)[0].(map[string]any)
	if _, ok := item["note"]; ok {
		t.Error("numeric note not removed")
	}
	if !IsValid(pruned) {
		t.Errorf("pruned instance still invalid: %v", Validate(pruned))
	}
}

func TestPrune_RemovesNestedNameExtras(t *testing.T) {
	instance := decode(t, `[
		{
			"id": "a",
			"type": "article-journal",
			"author": [
				{"family": "Smith", "given": "Jane", "affiliation": "MIT"},
				{"family": "Doe"}
			]
		}
	]`)

	pruned, err := Prune(instance, PruneOptions{})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	item := pruned.([]any)[0].(map[string]any)
	authors := item["author"].([]any)
	first := authors[0].(map[string]any)
	if _, ok := first["affiliation"]; ok {
		t.Error("author affiliation not removed")
	}
	if first["family"] != "Smith" {
		t.Errorf("author family = %v, want Smith", first["family"])
	}
	if !IsValid(pruned) {
		t.Errorf("pruned instance still invalid: %v", Validate(pruned))
	}
}

func TestPrune_Idempotent(t *testing.T) {
	instance := decode(t, `[
		{"id": "a", "type": "article-journal", "bogus_field": 1, "note": 2}
	]`)

	once, err := Prune(instance, PruneOptions{})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	twice, err := Prune(once, PruneOptions{})
	if err != nil {
		t.Fatalf("Prune (second): %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Prune not idempotent: %v != %v", once, twice)
	}
}

func TestPrune_CopiesByDefault(t *testing.T) {
	instance := decode(t, `[{"id": "a", "type": "book", "bogus_field": "x"}]`)

	if _, err := Prune(instance, PruneOptions{}); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	item := instance.([]any)[0].(map[string]any)
	if _, ok := item["bogus_field"]; !ok {
		t.Error("default mode mutated the caller's instance")
	}
}

func TestPrune_InPlace(t *testing.T) {
	instance := decode(t, `[{"id": "a", "type": "book", "bogus_field": "x"}]`)

	pruned, err := Prune(instance, PruneOptions{InPlace: true})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	item := instance.([]any)[0].(map[string]any)
	if _, ok := item["bogus_field"]; ok {
		t.Error("in-place mode did not mutate the caller's instance")
	}
	if !reflect.DeepEqual(pruned, instance) {
		t.Error("in-place result should alias the input instance")
	}
}

func TestComparePaths(t *testing.T) {
	tests := []struct {
		a, b []string
		want int
	}{
		{nil, nil, 0},
		{[]string{"0"}, nil, 1},
		{[]string{"2"}, []string{"10"}, -1},
		{[]string{"0", "note"}, []string{"0", "author"}, 1},
		{[]string{"0", "author", "1"}, []string{"0", "author"}, 1},
	}
	for _, tt := range tests {
		if got := comparePaths(tt.a, tt.b); got != tt.want {
			t.Errorf("comparePaths(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDeleteAt(t *testing.T) {
	instance := decode(t, `{"list": ["a", "b", "c"], "obj": {"x": 1}}`)

	instance = deleteAt(instance, []string{"list", "1"})
	instance = deleteAt(instance, []string{"obj", "x"})

	root := instance.(map[string]any)
	list := root["list"].([]any)
	if len(list) != 2 || list[0] != "a" || list[1] != "c" {
		t.Errorf("list after delete = %v", list)
	}
	if _, ok := root["obj"].(map[string]any)["x"]; ok {
		t.Error("obj.x not deleted")
	}
}
