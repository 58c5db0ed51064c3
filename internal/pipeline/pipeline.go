// Package pipeline drives the full path from raw news items to finished
// meme records: dedup, buzz scoring, generation, parsing, template matching.
// One bad item never aborts the batch; only configuration problems do.
package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/memewire/memewire/internal/cache"
	"github.com/memewire/memewire/internal/catalog"
	"github.com/memewire/memewire/internal/config"
	"github.com/memewire/memewire/internal/llm"
	"github.com/memewire/memewire/internal/match"
	"github.com/memewire/memewire/internal/metrics"
	"github.com/memewire/memewire/internal/news"
	"github.com/memewire/memewire/internal/parser"
	"github.com/memewire/memewire/internal/retry"
)

// ProcessedItem is one finished meme record, ready for output.
type ProcessedItem struct {
	Title            string   `json:"title"`
	URL              string   `json:"url,omitempty"`
	Category         string   `json:"category"`
	BuzzScore        int      `json:"buzz_score"`
	Description      string   `json:"description"`
	Emotion          string   `json:"emotion"`
	Dialogues        []string `json:"dialogues"`
	Hashtags         []string `json:"hashtags"`
	TemplateImageRef string   `json:"template_image,omitempty"`
	Source           string   `json:"source,omitempty"`
}

// Pipeline holds the stages and knobs for one processing run.
type Pipeline struct {
	Dedup     news.Deduplicator
	Generator llm.Generator
	Matcher   *match.Matcher
	Emotions  []catalog.Emotion
	Cache     *cache.Cache

	MinBuzzScore  int
	RetryAttempts int
	RetryDelay    time.Duration
	OnUnparsable  string // config.UnparsableSkip | config.UnparsableFallback
	OnNoTemplate  string // config.NoTemplateKeep | config.NoTemplateSkip
	CacheTTL      time.Duration
}

// fallbackResult is the canned record used when ON_UNPARSABLE=fallback and
// every retry produced unusable text. It is marked generic on purpose so
// downstream consumers can tell it apart from real generations.
func fallbackResult(category string) *parser.Result {
	return &parser.Result{
		Description: "The news happened.\nEveryone has opinions. Nobody has solutions.",
		Emotion:     "sarcasm",
		Category:    category,
		Dialogues:   []string{"When the news writes itself", "Me: pretending to be surprised"},
		Hashtags:    []string{"#News", "#SarcasmLoading", "#JustAnotherDay"},
	}
}

// Process runs the whole batch. The returned error covers batch-level
// failures only; per-item failures are logged, counted and skipped.
func (p *Pipeline) Process(ctx context.Context, items []news.Item) ([]ProcessedItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	start := time.Now()
	for range items {
		metrics.Global.IncrementItemsSeen()
	}

	unique := p.Dedup.Dedupe(items)
	dropped := len(items) - len(unique)
	for i := 0; i < dropped; i++ {
		metrics.Global.IncrementDuplicatesFiltered()
	}
	log.Printf("Dedup: %d items in, %d unique (%d filtered)", len(items), len(unique), dropped)

	var processed []ProcessedItem
	for _, item := range unique {
		select {
		case <-ctx.Done():
			return processed, ctx.Err()
		default:
		}

		out, ok := p.processOne(ctx, item)
		if !ok {
			continue
		}
		processed = append(processed, out)
		metrics.Global.IncrementItemsProcessed()
	}

	metrics.Global.RecordProcessingTime(time.Since(start))
	metrics.Global.SetLastRun()
	log.Printf("Pipeline done: %d/%d items processed in %v", len(processed), len(unique), time.Since(start))

	return processed, nil
}

func (p *Pipeline) processOne(ctx context.Context, item news.Item) (ProcessedItem, bool) {
	category := news.Categorize(item.Title, item.Content, item.CategoryHint)
	buzz := news.Score(item.Title, item.Content, item.SourceTier)

	if buzz < p.MinBuzzScore {
		metrics.Global.IncrementLowBuzzSkipped()
		log.Printf("Skipping low-buzz item (score %d): %s", buzz, item.Title)
		return ProcessedItem{}, false
	}

	result, ok := p.generate(ctx, item, category)
	if !ok {
		return ProcessedItem{}, false
	}

	imageRef, ok := p.matchTemplate(result.Emotion, item.Title)
	if !ok {
		return ProcessedItem{}, false
	}

	return ProcessedItem{
		Title:            item.Title,
		URL:              item.URL,
		Category:         result.Category,
		BuzzScore:        buzz,
		Description:      result.Description,
		Emotion:          result.Emotion,
		Dialogues:        result.Dialogues,
		Hashtags:         result.Hashtags,
		TemplateImageRef: imageRef,
		Source:           item.SourceName,
	}, true
}

// generate produces a parsed record for one item, consulting the cache
// first and retrying with reworded prompts on parse failures.
func (p *Pipeline) generate(ctx context.Context, item news.Item, category string) (*parser.Result, bool) {
	var cacheKey string
	if p.Cache != nil {
		cacheKey = p.Cache.GenerateKey(item.Title, item.Content)
		if cached, found := p.Cache.Get(cacheKey); found {
			if result, isResult := cached.(*parser.Result); isResult {
				metrics.Global.IncrementCacheHits()
				log.Printf("Cache hit: %s", item.Title)
				return result, true
			}
		}
	}

	content := item.Title
	if item.Content != "" {
		content = item.Title + "\n" + item.Content
	}

	var result *parser.Result
	err := retry.WithRetry(ctx, retry.RetryConfig{
		MaxAttempts: p.RetryAttempts,
		Delay:       p.RetryDelay,
	}, func(attempt int) error {
		prompt := llm.MemePrompt(content, p.Emotions, attempt-1)

		metrics.Global.IncrementLLMCalls()
		raw, err := p.Generator.Generate(ctx, prompt)
		if err != nil {
			metrics.Global.IncrementCallFailures()
			return err
		}

		parsed, err := parser.Parse(raw)
		if err != nil {
			metrics.Global.IncrementParseFailures()
			return err
		}

		result = parsed
		return nil
	})

	if err != nil {
		if p.OnUnparsable == config.UnparsableFallback && errors.Is(err, parser.ErrUnparsable) {
			log.Printf("Using fallback content for: %s", item.Title)
			result = fallbackResult(category)
		} else {
			log.Printf("Giving up on item after retries: %s: %v", item.Title, err)
			metrics.Global.SetError(err.Error())
			return nil, false
		}
	}

	if p.Cache != nil && p.CacheTTL > 0 {
		p.Cache.Set(cacheKey, result, p.CacheTTL)
	}
	return result, true
}

// matchTemplate resolves the detected emotion to a template image. An empty
// catalog is survivable: ON_NO_TEMPLATE decides whether the record is kept
// without an image or dropped.
func (p *Pipeline) matchTemplate(emotion, title string) (string, bool) {
	imageRef, err := p.Matcher.Match(emotion)
	if err != nil {
		if errors.Is(err, match.ErrNoTemplate) {
			if p.OnNoTemplate == config.NoTemplateSkip {
				log.Printf("No template for emotion %q, dropping: %s", emotion, title)
				return "", false
			}
			log.Printf("No template for emotion %q, keeping without image: %s", emotion, title)
			return "", true
		}
		log.Printf("Template lookup failed for %q: %v", emotion, err)
		return "", true
	}

	metrics.Global.IncrementTemplatesMatched()
	return imageRef, true
}
