package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadItemsFromFileFlatLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "news_data_2025-06-01.json")
	data := `{
		"articles": [
			{"title": "Cricket final tonight", "content": "Big match", "url": "http://x/1", "category": "sports", "source_buzz_level": "HIGH", "has_image": true},
			{"title": "", "content": ""}
		]
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := LoadItemsFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 (empty article skipped)", len(items))
	}
	if items[0].CategoryHint != "sports" || items[0].SourceTier != "HIGH" || !items[0].HasImage {
		t.Errorf("fields not carried over: %+v", items[0])
	}
}

func TestLoadItemsFromFileCategorizedLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "news_data_latest.json")
	data := `{
		"categorized_news": {
			"politics": [{"title": "Vote counting begins", "content": "c", "url": "http://x/2"}],
			"sports": [{"title": "Team wins", "content": "c", "url": "http://x/3"}]
		}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := LoadItemsFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	for _, item := range items {
		if item.CategoryHint == "" {
			t.Errorf("category hint missing for %q", item.Title)
		}
	}
}

func TestLoadItemsFromFileUnknownLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "news_data_x.json")
	if err := os.WriteFile(path, []byte(`{"something": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadItemsFromFile(path); err == nil {
		t.Fatal("expected error for unknown layout")
	}
}

func TestFindLatestNewsFile(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "news_data_old.json")
	newer := filepath.Join(dir, "news_data_new.json")
	if err := os.WriteFile(older, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newer, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Ensure distinct mtimes regardless of filesystem resolution.
	now := time.Now()
	if err := os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatestNewsFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != newer {
		t.Errorf("got %q, want %q", got, newer)
	}

	if _, err := FindLatestNewsFile(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestStripMarkup(t *testing.T) {
	in := `<p>Minister <b>announces</b> new   policy</p>`
	if got := StripMarkup(in); got != "Minister announces new policy" {
		t.Errorf("got %q", got)
	}
	if got := StripMarkup("plain text"); got != "plain text" {
		t.Errorf("got %q", got)
	}
}
