// Package parser recovers a structured meme-content record from free-form
// LLM text. Three tiers are tried in order: JSON-block extraction, quoted
// string extraction, line-pattern extraction. Fields are never fabricated
// here; a response that no tier can complete is a failure the caller decides
// how to handle.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnparsable means no tier could produce a complete record.
var ErrUnparsable = errors.New("unparsable response")

const (
	maxDialogues      = 2
	maxDialogueWords  = 8
	minCaptionWords   = 2
	maxCaptionWords   = 10
	// Prompts ask for 6-8 hashtags; a response carrying at least 3 still
	// yields a usable record, below that it is rejected.
	minHashtags = 3
	maxHashtags = 8
	requiredDialogues = 2
)

// Result is the structured content extracted from one LLM response. All
// fields are required; partial records are discarded, not repaired.
type Result struct {
	Description string   `json:"description"`
	Emotion     string   `json:"emotion"`
	Category    string   `json:"category"`
	Dialogues   []string `json:"dialogues"`
	Hashtags    []string `json:"hashtags"`
}

// Parse runs the tiers in order; the first complete record wins.
func Parse(raw string) (*Result, error) {
	if r, ok := parseJSONBlock(raw); ok {
		return r, nil
	}
	if r, ok := parseQuoted(raw); ok {
		return r, nil
	}
	if r, ok := parseLinePatterns(raw); ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: all extraction tiers failed", ErrUnparsable)
}

// --- tier 1: JSON block ---

func parseJSONBlock(raw string) (*Result, bool) {
	text := stripCodeFences(raw)

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		// Pure-array responses carry the record as their first element.
		start = strings.IndexByte(text, '[')
		end = strings.LastIndexByte(text, ']')
		if start < 0 || end <= start {
			return nil, false
		}

		var list []Result
		if err := json.Unmarshal([]byte(text[start:end+1]), &list); err != nil || len(list) == 0 {
			return nil, false
		}
		return normalize(&list[0])
	}

	block := []byte(text[start : end+1])

	// Require all keys to be literally present; zero values are not enough.
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(block, &keys); err != nil {
		return nil, false
	}
	for _, required := range []string{"description", "emotion", "category", "dialogues", "hashtags"} {
		if _, ok := keys[required]; !ok {
			return nil, false
		}
	}

	var r Result
	if err := json.Unmarshal(block, &r); err != nil {
		return nil, false
	}
	return normalize(&r)
}

func stripCodeFences(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// --- tier 2: quoted strings ---

var quotedRe = regexp.MustCompile(`["']([^"']+)["']`)

func parseQuoted(raw string) (*Result, bool) {
	var candidates []string
	for _, m := range quotedRe.FindAllStringSubmatch(raw, -1) {
		words := strings.Fields(m[1])
		if len(words) >= minCaptionWords && len(words) <= maxCaptionWords {
			candidates = append(candidates, m[1])
		}
	}

	if len(candidates) < requiredDialogues {
		return nil, false
	}

	r := extractLabeledFields(raw)
	r.Dialogues = candidates
	return normalize(r)
}

// --- tier 3: line patterns ---

var (
	bulletPrefixRe = regexp.MustCompile(`^\s*(?:\d+[.)]\s*|[-*•]\s*)`)
	fieldLabelRe   = regexp.MustCompile(`(?i)^(description|emotion|category|dialogues|hashtags)\b`)

	captionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^when\b`),
		regexp.MustCompile(`(?i)^me\b`),
		regexp.MustCompile(`(?i)^pov:`),
		regexp.MustCompile(`(?i)^everyone\b`),
		regexp.MustCompile(`(?i)^meanwhile\b`),
		regexp.MustCompile(`:`),
	}
)

func parseLinePatterns(raw string) (*Result, bool) {
	var candidates []string

	for _, line := range strings.Split(raw, "\n") {
		line = bulletPrefixRe.ReplaceAllString(strings.TrimSpace(line), "")
		if line == "" || fieldLabelRe.MatchString(line) || strings.HasPrefix(line, "#") {
			continue
		}

		words := strings.Fields(line)
		if len(words) < minCaptionWords || len(words) > maxCaptionWords {
			continue
		}

		for _, pattern := range captionPatterns {
			if pattern.MatchString(line) {
				candidates = append(candidates, line)
				break
			}
		}
	}

	if len(candidates) < requiredDialogues {
		return nil, false
	}

	r := extractLabeledFields(raw)
	r.Dialogues = candidates
	return normalize(r)
}

// --- shared field extraction for the manual tiers ---

var (
	descriptionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)"?description"?\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)description\s*:\s*(.+)`),
	}
	emotionRe  = regexp.MustCompile(`(?i)"?emotion"?\s*:\s*"?([a-zA-Z]+)"?`)
	categoryRe = regexp.MustCompile(`(?i)"?category"?\s*:\s*"?([a-zA-Z]+)"?`)
	hashtagRe  = regexp.MustCompile(`#\w+`)
)

func extractLabeledFields(raw string) *Result {
	r := &Result{}

	for _, re := range descriptionRes {
		if m := re.FindStringSubmatch(raw); m != nil {
			r.Description = strings.TrimSpace(m[1])
			break
		}
	}
	if m := emotionRe.FindStringSubmatch(raw); m != nil {
		r.Emotion = m[1]
	}
	if m := categoryRe.FindStringSubmatch(raw); m != nil {
		r.Category = m[1]
	}
	r.Hashtags = hashtagRe.FindAllString(raw, -1)

	return r
}

// --- normalization ---

// normalize applies field-level cleanup and rejects incomplete records.
func normalize(r *Result) (*Result, bool) {
	r.Description = strings.TrimSpace(r.Description)
	r.Emotion = strings.ToLower(strings.TrimSpace(r.Emotion))
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))

	var dialogues []string
	for _, d := range r.Dialogues {
		d = strings.TrimSpace(d)
		words := strings.Fields(d)
		if len(words) < minCaptionWords {
			continue
		}
		// Extra words are dropped, not re-wrapped.
		if len(words) > maxDialogueWords {
			words = words[:maxDialogueWords]
		}
		dialogues = append(dialogues, strings.Join(words, " "))
		if len(dialogues) == maxDialogues {
			break
		}
	}
	r.Dialogues = dialogues

	var hashtags []string
	for _, h := range r.Hashtags {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.HasPrefix(h, "#") {
			h = "#" + h
		}
		hashtags = append(hashtags, h)
		if len(hashtags) == maxHashtags {
			break
		}
	}
	r.Hashtags = hashtags

	if r.Description == "" || r.Emotion == "" || r.Category == "" {
		return nil, false
	}
	if len(r.Dialogues) < requiredDialogues || len(r.Hashtags) < minHashtags {
		return nil, false
	}

	return r, true
}
