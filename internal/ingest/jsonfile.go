package ingest

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/memewire/memewire/internal/news"
)

// scrapedArticle matches one article record in a scraper dump.
type scrapedArticle struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	URL             string `json:"url"`
	Category        string `json:"category"`
	Source          string `json:"source"`
	SourceBuzzLevel string `json:"source_buzz_level"`
	HasImage        bool   `json:"has_image"`
}

// newsFile covers both dump layouts: categorized and flat.
type newsFile struct {
	CategorizedNews map[string][]scrapedArticle `json:"categorized_news"`
	Articles        []scrapedArticle            `json:"articles"`
}

// FindLatestNewsFile returns the newest news_data_*.json in dir, or an error
// if none exist.
func FindLatestNewsFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "news_data_*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no news_data_*.json files in %s", dir)
	}

	latest := ""
	var latestMod int64
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().Unix() > latestMod {
			latest = path
			latestMod = info.ModTime().Unix()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no readable news_data_*.json files in %s", dir)
	}
	return latest, nil
}

// LoadItemsFromFile reads a scraper JSON dump and converts its articles into
// pipeline items. Both the categorized and the flat layout are supported.
func LoadItemsFromFile(path string) ([]news.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file newsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var articles []scrapedArticle
	switch {
	case len(file.CategorizedNews) > 0:
		for category, list := range file.CategorizedNews {
			log.Printf("Loading %d articles from %s category", len(list), category)
			for _, a := range list {
				if a.Category == "" {
					a.Category = category
				}
				articles = append(articles, a)
			}
		}
	case len(file.Articles) > 0:
		articles = file.Articles
	default:
		return nil, fmt.Errorf("unknown JSON structure in %s", path)
	}

	items := make([]news.Item, 0, len(articles))
	for _, a := range articles {
		if a.Title == "" && a.Content == "" {
			continue
		}
		items = append(items, news.Item{
			Title:        a.Title,
			Content:      a.Content,
			URL:          a.URL,
			CategoryHint: a.Category,
			HasImage:     a.HasImage,
			SourceName:   a.Source,
			SourceTier:   a.SourceBuzzLevel,
		})
	}

	log.Printf("Loaded %d articles from %s", len(items), filepath.Base(path))
	return items, nil
}
