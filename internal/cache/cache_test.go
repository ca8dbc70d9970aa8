package cache

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/refmint/refmint/internal/csl"
)

func openTestCache(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetMiss(t *testing.T) {
	db := openTestCache(t)
	_, err := db.Get("doi:10.7717/peerj.338")
	if !errors.Is(err, ErrMiss) {
		t.Fatalf("Get on empty cache returned %v, want ErrMiss", err)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	db := openTestCache(t)
	item := csl.Item{
		"id":    "jrGPKXMz",
		"type":  "article-journal",
		"title": "Expression of p53",
	}
	if err := db.Put("doi:10.7717/peerj.338", item); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := db.Get("doi:10.7717/peerj.338")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got["title"] != "Expression of p53" || got["id"] != "jrGPKXMz" {
		t.Errorf("Get = %v", got)
	}
}

func TestPutReplaces(t *testing.T) {
	db := openTestCache(t)
	if err := db.Put("pmid:21347133", csl.Item{"type": "entry", "title": "first"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := db.Put("pmid:21347133", csl.Item{"type": "entry", "title": "second"}); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}
	got, err := db.Get("pmid:21347133")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got["title"] != "second" {
		t.Errorf("title = %v, want the replacement to win", got["title"])
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := db.Put("arxiv:1407.3561", csl.Item{"type": "manuscript"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get("arxiv:1407.3561")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got["type"] != "manuscript" {
		t.Errorf("type = %v", got["type"])
	}
}
