package news

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

const (
	StrategyJaccard = "jaccard"
	StrategyHash    = "hash"
)

// Deduplicator removes near-duplicate items, order preserving, first
// occurrence wins. Two strategies are supported: word-overlap similarity on
// titles ("jaccard") and an exact content hash ("hash"). They are deliberate
// configuration choices, not merged into one pass.
type Deduplicator struct {
	Strategy  string
	Threshold float64 // jaccard similarity above which titles are duplicates
}

func (d Deduplicator) Dedupe(items []Item) []Item {
	if d.Strategy == StrategyHash {
		return dedupeByContentHash(items)
	}
	return dedupeByTitleSimilarity(items, d.Threshold)
}

// O(n^2) over accepted titles; fine at the tens-of-items scale this runs at.
func dedupeByTitleSimilarity(items []Item, threshold float64) []Item {
	var unique []Item
	var seenTitles []map[string]struct{}

	for _, item := range items {
		words := titleWords(item.Title)

		duplicate := false
		for _, seen := range seenTitles {
			if jaccardSimilarity(words, seen) > threshold {
				duplicate = true
				break
			}
		}

		if !duplicate {
			seenTitles = append(seenTitles, words)
			unique = append(unique, item)
		}
	}

	return unique
}

func dedupeByContentHash(items []Item) []Item {
	var unique []Item
	seen := map[string]struct{}{}

	for _, item := range items {
		key := contentKey(item.Title, item.Content)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}

	return unique
}

func titleWords(title string) map[string]struct{} {
	words := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(title)) {
		words[w] = struct{}{}
	}
	return words
}

// jaccardSimilarity is |intersection| / |union| over two word sets. Empty
// titles never match anything.
func jaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// contentKey generates a hash key from title and content for exact-match
// deduplication.
func contentKey(title, content string) string {
	h := sha1.New()
	h.Write([]byte(strings.ToLower(title + content)))
	return hex.EncodeToString(h.Sum(nil))
}
