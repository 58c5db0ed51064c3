package news

import (
	"strings"
)

// Base score by source buzz tier; unknown tiers count as MEDIUM.
var tierBaseScores = map[string]int{
	"EXTREME": 9,
	"HIGH":    7,
	"MEDIUM":  5,
}

const maxBuzzScore = 10

// Attention keywords and their point values. Each keyword counts once per
// item regardless of how often it occurs.
var buzzKeywords = map[string]int{
	"viral": 3, "trending": 2, "shocking": 3, "exclusive": 2,
	"breaking": 2, "controversy": 3, "scandal": 3, "bizarre": 3,
	"weird": 2, "funny": 2, "hilarious": 3, "epic": 2,
	"fail": 2, "drama": 2, "fight": 2, "clash": 2,
	"amazing": 1, "incredible": 2, "unbelievable": 2,
	"reddit": 2, "twitter": 2, "social media": 2, "youtube": 2,
}

// Score computes the buzz heuristic for an item: tier base + keyword bonus +
// content-length bonus, clamped to 10. Deterministic, no external calls.
func Score(title, content, sourceTier string) int {
	base, ok := tierBaseScores[strings.ToUpper(sourceTier)]
	if !ok {
		base = tierBaseScores["MEDIUM"]
	}

	text := strings.ToLower(title + " " + content)

	bonus := 0
	for keyword, points := range buzzKeywords {
		if strings.Contains(text, keyword) {
			bonus += points
		}
	}

	// Richer content scores higher
	if len(content) > 150 {
		bonus++
	}
	if len(content) > 500 {
		bonus++
	}

	score := base + bonus
	if score > maxBuzzScore {
		score = maxBuzzScore
	}
	return score
}

type categoryRule struct {
	name     string
	keywords []string
}

// Ordered rules. Politics is checked first on purpose: its stories routinely
// carry entertainment words like "award", and reordering misroutes them.
var categoryRules = []categoryRule{
	{"politics", []string{
		"election", "parliament", "minister", "government", "modi", "congress",
		"bjp", "political", "pm", "chief minister", "assembly", "vote", "policy",
		"president", "supreme court", "law", "constitution", "politics", "politician",
		"campaign", "democracy", "cabinet", "governance", "legislature",
	}},
	{"movies", []string{
		"movie", "film", "actor", "actress", "bollywood", "hollywood", "director",
		"cinema", "box office", "trailer", "release", "oscar", "award", "celebrity",
		"music", "album", "concert", "song", "singer", "musician", "entertainment",
	}},
	{"sports", []string{
		"cricket", "football", "soccer", "tennis", "basketball", "match", "player",
		"team", "tournament", "championship", "olympics", "ipl", "world cup",
		"score", "goal", "win", "defeat", "champion", "sports",
	}},
	{"business", []string{
		"market", "stock", "rupee", "business", "company", "economy", "bank",
		"investment", "profit", "loss", "trade", "finance", "gdp", "inflation",
		"startup", "ipo", "revenue", "funding", "economic",
	}},
	{"technology", []string{
		"technology", "tech", "ai", "artificial intelligence", "software", "app",
		"google", "apple", "microsoft", "phone", "iphone", "android", "internet",
		"cyber", "data", "digital", "innovation",
	}},
	{"health", []string{
		"health", "medical", "hospital", "doctor", "disease", "medicine",
		"covid", "virus", "vaccine", "treatment", "patient", "healthcare",
	}},
	{"crime", []string{
		"crime", "police", "arrest", "murder", "theft", "security", "terrorism",
		"investigation", "court", "jail", "accused", "suspect",
	}},
	{"international", []string{
		"international", "world", "global", "country", "nations", "embassy",
		"foreign", "diplomacy", "war", "conflict", "peace", "treaty",
	}},
}

const defaultCategory = "general"

// Categorize evaluates the ordered rules and returns the first category with
// a keyword hit. A hint already naming an allowed category short-circuits the
// evaluation.
func Categorize(title, content, hint string) string {
	if hint != "" {
		h := strings.ToLower(strings.TrimSpace(hint))
		if isAllowedCategory(h) {
			return h
		}
	}

	text := strings.ToLower(title + " " + content)

	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.name
			}
		}
	}

	return defaultCategory
}

func isAllowedCategory(name string) bool {
	if name == defaultCategory {
		return true
	}
	for _, rule := range categoryRules {
		if rule.name == name {
			return true
		}
	}
	return false
}
