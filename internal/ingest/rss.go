package ingest

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/memewire/memewire/internal/news"
)

// FetchAllSources downloads and parses all configured feeds and returns the
// collected items. A failing feed is logged and skipped, never fatal.
func FetchAllSources(sources []Source) ([]news.Item, error) {
	parser := gofeed.NewParser()
	var allItems []news.Item
	successCount := 0

	for _, source := range sources {
		feed, err := parser.ParseURL(source.URL)
		if err != nil {
			log.Printf("Error parsing feed %s: %v", source.URL, err)
			continue
		}

		for _, item := range feed.Items {
			allItems = append(allItems, feedItemToNews(item, source))
		}

		successCount++
		log.Printf("Loaded %d items from %s (buzz level %s)", len(feed.Items), source.Name, source.BuzzLevel)
	}

	log.Printf("Processed feeds: %d/%d ok", successCount, len(sources))
	return allItems, nil
}

func feedItemToNews(item *gofeed.Item, source Source) news.Item {
	n := news.Item{
		Title:        strings.TrimSpace(item.Title),
		Content:      StripMarkup(item.Description),
		URL:          item.Link,
		CategoryHint: source.Category,
		SourceName:   source.Name,
		SourceTier:   source.BuzzLevel,
	}

	if item.PublishedParsed != nil {
		n.Published = *item.PublishedParsed
	}

	if item.Image != nil && item.Image.URL != "" {
		n.HasImage = true
	}
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") {
			n.HasImage = true
			break
		}
	}

	return n
}

// StripMarkup flattens feed description HTML into plain text.
func StripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}
