package citekey

import (
	"strings"
	"testing"
)

func TestShorten_Deterministic(t *testing.T) {
	inputs := []string{
		"doi:10.7554/elife.32822",
		"pmid:29618526",
		"raw:dongbo-944453",
		"url:https://greenelab.github.io/",
	}

	for _, ck := range inputs {
		first := Shorten(ck)
		second := Shorten(ck)
		if first != second {
			t.Errorf("Shorten(%q) not deterministic: %q != %q", ck, first, second)
		}
		if len(first) != ShortLength {
			t.Errorf("Shorten(%q) = %q, want length %d", ck, first, ShortLength)
		}
		for _, r := range first {
			if !strings.ContainsRune(base62Alphabet, r) {
				t.Errorf("Shorten(%q) = %q contains non-base62 rune %q", ck, first, r)
			}
		}
	}
}

func TestShorten_DistinctInputs(t *testing.T) {
	a := Shorten("doi:10.7554/elife.32822")
	b := Shorten("doi:10.7554/elife.32823")
	if a == b {
		t.Errorf("distinct citekeys shortened to the same key %q", a)
	}
}

func TestEncodeBase62(t *testing.T) {
	if got := encodeBase62([]byte{0, 0, 0, 0, 0, 0}); got != strings.Repeat("0", ShortLength) {
		t.Errorf("encodeBase62(zero digest) = %q", got)
	}
	if got := encodeBase62([]byte{0, 0, 0, 0, 0, 61}); got != strings.Repeat("0", ShortLength-1)+"z" {
		t.Errorf("encodeBase62(61) = %q", got)
	}
	if got := encodeBase62([]byte{0, 0, 0, 0, 0, 62}); got != strings.Repeat("0", ShortLength-2)+"10" {
		t.Errorf("encodeBase62(62) = %q", got)
	}
}
