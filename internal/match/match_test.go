package match

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/memewire/memewire/internal/catalog"
)

type fakeStore struct {
	templates map[int64][]catalog.Template
	sample    []catalog.Template
}

func (f *fakeStore) ListEmotions() ([]catalog.Emotion, error) { return nil, nil }

func (f *fakeStore) TemplatesByEmotion(emotionID int64) ([]catalog.Template, error) {
	return f.templates[emotionID], nil
}

func (f *fakeStore) SampleTemplates(limit int) ([]catalog.Template, error) {
	if limit < len(f.sample) {
		return f.sample[:limit], nil
	}
	return f.sample, nil
}

var testEmotions = []catalog.Emotion{
	{ID: 1, Label: "joy", Description: "happy"},
	{ID: 2, Label: "anger", Description: "mad"},
	{ID: 3, Label: "sarcasm", Description: "dry"},
}

func newTestMatcher(store catalog.Store) *Matcher {
	return New(store, testEmotions, 0.5, rand.New(rand.NewSource(1)))
}

func TestMatchExactLabel(t *testing.T) {
	store := &fakeStore{templates: map[int64][]catalog.Template{
		1: {{ID: 10, Emotion: 1, ImageRef: "joy-a.jpg"}, {ID: 11, Emotion: 1, ImageRef: "joy-b.jpg"}},
	}}
	m := newTestMatcher(store)

	for i := 0; i < 10; i++ {
		ref, err := m.Match("Joy")
		if err != nil {
			t.Fatal(err)
		}
		if ref != "joy-a.jpg" && ref != "joy-b.jpg" {
			t.Fatalf("got template %q outside joy's set", ref)
		}
	}
}

func TestMatchNearestLabel(t *testing.T) {
	store := &fakeStore{templates: map[int64][]catalog.Template{
		1: {{ID: 10, Emotion: 1, ImageRef: "joy-a.jpg"}},
	}}
	m := newTestMatcher(store)

	// "joyful" is absent from the catalog; it must resolve to "joy".
	ref, err := m.Match("joyful")
	if err != nil {
		t.Fatal(err)
	}
	if ref != "joy-a.jpg" {
		t.Errorf("got %q, want joy-a.jpg", ref)
	}
}

func TestMatchArbitraryFallback(t *testing.T) {
	store := &fakeStore{
		templates: map[int64][]catalog.Template{},
		sample: []catalog.Template{
			{ID: 20, Emotion: 2, ImageRef: "any-a.jpg"},
			{ID: 21, Emotion: 3, ImageRef: "any-b.jpg"},
		},
	}
	m := newTestMatcher(store)

	// Nothing close to this label exists, but the store is non-empty, so the
	// ladder must still hand back something.
	ref, err := m.Match("xqzrk")
	if err != nil {
		t.Fatal(err)
	}
	if ref != "any-a.jpg" && ref != "any-b.jpg" {
		t.Errorf("got %q outside the sample set", ref)
	}
}

func TestMatchEmptyStore(t *testing.T) {
	m := newTestMatcher(&fakeStore{})

	_, err := m.Match("joy")
	if !errors.Is(err, ErrNoTemplate) {
		t.Fatalf("got %v, want ErrNoTemplate", err)
	}
}

func TestMatchDeterministicWithFixedSeed(t *testing.T) {
	store := &fakeStore{templates: map[int64][]catalog.Template{
		1: {
			{ID: 10, Emotion: 1, ImageRef: "joy-a.jpg"},
			{ID: 11, Emotion: 1, ImageRef: "joy-b.jpg"},
			{ID: 12, Emotion: 1, ImageRef: "joy-c.jpg"},
		},
	}}

	a := New(store, testEmotions, 0.5, rand.New(rand.NewSource(42)))
	b := New(store, testEmotions, 0.5, rand.New(rand.NewSource(42)))

	for i := 0; i < 5; i++ {
		refA, _ := a.Match("joy")
		refB, _ := b.Match("joy")
		if refA != refB {
			t.Fatalf("same seed diverged: %q vs %q", refA, refB)
		}
	}
}

func TestSimilarityRatio(t *testing.T) {
	if got := similarityRatio("joyful", "joy"); got <= 0.5 {
		t.Errorf("similarityRatio(joyful, joy) = %v, want > 0.5", got)
	}
	if got := similarityRatio("joy", "joy"); got != 1 {
		t.Errorf("identical strings: got %v, want 1", got)
	}
	if got := similarityRatio("", ""); got != 0 {
		t.Errorf("empty strings: got %v, want 0", got)
	}
}
