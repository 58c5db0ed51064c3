// Package news holds the raw item shape plus the deduplication and
// buzz-ranking heuristics applied before any LLM spend.
package news

import (
	"time"
)

// Item is a single scraped headline as delivered by an ingestion source.
// Duplicates are expected; identity is not guaranteed unique.
type Item struct {
	Title        string
	Content      string
	URL          string
	CategoryHint string
	HasImage     bool
	Published    time.Time

	SourceName string
	SourceTier string // EXTREME | HIGH | MEDIUM
}
