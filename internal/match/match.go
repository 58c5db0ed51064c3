// Package match selects a meme template for a detected emotion label,
// degrading from exact match to fuzzy match to an arbitrary template so a
// thin spot in template coverage never stalls a batch.
package match

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/memewire/memewire/internal/catalog"
)

// ErrNoTemplate means the store is reachable but returned zero usable rows
// even after the fallback ladder.
var ErrNoTemplate = errors.New("no template available")

const fallbackSampleSize = 10

// Matcher resolves emotion labels against the catalog. Randomness is
// injected so tests can pin the selection.
type Matcher struct {
	store     catalog.Store
	byLabel   map[string]catalog.Emotion
	labels    []string
	threshold float64
	rng       *rand.Rand
}

func New(store catalog.Store, emotions []catalog.Emotion, threshold float64, rng *rand.Rand) *Matcher {
	byLabel := make(map[string]catalog.Emotion, len(emotions))
	labels := make([]string, 0, len(emotions))
	for _, e := range emotions {
		label := strings.ToLower(strings.TrimSpace(e.Label))
		byLabel[label] = e
		labels = append(labels, label)
	}

	return &Matcher{
		store:     store,
		byLabel:   byLabel,
		labels:    labels,
		threshold: threshold,
		rng:       rng,
	}
}

// Match returns the image reference of a template for the detected emotion:
// exact label match first, then the most similar label above the threshold,
// then an arbitrary sample. ErrNoTemplate only when the store is empty.
func (m *Matcher) Match(detectedEmotion string) (string, error) {
	detected := strings.ToLower(strings.TrimSpace(detectedEmotion))

	if emotion, ok := m.byLabel[detected]; ok {
		if ref, ok, err := m.pickForEmotion(emotion.ID); err != nil {
			return "", err
		} else if ok {
			return ref, nil
		}
	}

	if nearest, ok := m.nearestLabel(detected); ok {
		if ref, ok, err := m.pickForEmotion(m.byLabel[nearest].ID); err != nil {
			return "", err
		} else if ok {
			return ref, nil
		}
	}

	templates, err := m.store.SampleTemplates(fallbackSampleSize)
	if err != nil {
		return "", fmt.Errorf("template fallback sample: %w", err)
	}
	if len(templates) == 0 {
		return "", ErrNoTemplate
	}
	return templates[m.rng.Intn(len(templates))].ImageRef, nil
}

func (m *Matcher) pickForEmotion(emotionID int64) (string, bool, error) {
	templates, err := m.store.TemplatesByEmotion(emotionID)
	if err != nil {
		return "", false, fmt.Errorf("templates for emotion %d: %w", emotionID, err)
	}
	if len(templates) == 0 {
		return "", false, nil
	}
	return templates[m.rng.Intn(len(templates))].ImageRef, true, nil
}

// nearestLabel returns the catalog label most similar to the detected one,
// if its normalized edit-distance ratio clears the threshold.
func (m *Matcher) nearestLabel(detected string) (string, bool) {
	best := ""
	bestRatio := 0.0

	for _, label := range m.labels {
		ratio := similarityRatio(detected, label)
		if ratio > bestRatio {
			bestRatio = ratio
			best = label
		}
	}

	if bestRatio > m.threshold {
		return best, true
	}
	return "", false
}

// similarityRatio maps edit distance onto [0,1], normalized by the combined
// length so that "joyful" vs "joy" lands at 2/3 rather than 1/2.
func similarityRatio(a, b string) float64 {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 0
	}

	dist := levenshtein.Distance(a, b, nil)
	return float64(total-dist) / float64(total)
}
