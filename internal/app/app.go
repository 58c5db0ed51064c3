// Package app wires the configured backends together and runs one pipeline
// pass: ingest, dedup, score, generate, match, write output.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/memewire/memewire/internal/cache"
	"github.com/memewire/memewire/internal/catalog"
	"github.com/memewire/memewire/internal/config"
	"github.com/memewire/memewire/internal/gemini"
	"github.com/memewire/memewire/internal/ingest"
	"github.com/memewire/memewire/internal/llm"
	"github.com/memewire/memewire/internal/logger"
	"github.com/memewire/memewire/internal/match"
	"github.com/memewire/memewire/internal/metrics"
	"github.com/memewire/memewire/internal/news"
	"github.com/memewire/memewire/internal/pipeline"
)

// output is the shape of one result file.
type output struct {
	GeneratedAt    string                   `json:"generated_at"`
	TotalProcessed int                      `json:"total_processed"`
	Items          []pipeline.ProcessedItem `json:"items"`
}

// Run executes one full pipeline pass. Configuration problems are fatal;
// everything downstream of configuration degrades per item.
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	logger.Init(cfg.Debug)

	ctx := context.Background()

	store, err := catalog.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Template store error: %v", err)
	}
	defer store.Close()

	emotions, err := store.ListEmotions()
	if err != nil {
		log.Fatalf("Failed to load emotions: %v", err)
	}
	if len(emotions) == 0 {
		log.Fatalf("Emotion vocabulary is empty; cannot classify generated content")
	}
	logger.Info("emotion vocabulary loaded", "count", len(emotions))

	generator, cleanup, err := buildGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("LLM backend error: %v", err)
	}
	defer cleanup()

	items := collectItems(cfg)
	if len(items) == 0 {
		log.Println("No news items collected, nothing to do.")
		return
	}
	logger.Info("collected news items", "count", len(items))

	p := &pipeline.Pipeline{
		Dedup: news.Deduplicator{
			Strategy:  cfg.DedupStrategy,
			Threshold: cfg.SimilarityThreshold,
		},
		Generator:     generator,
		Matcher:       match.New(store, emotions, cfg.TemplateMatchThreshold, rand.New(rand.NewSource(time.Now().UnixNano()))),
		Emotions:      emotions,
		Cache:         cache.New(),
		MinBuzzScore:  cfg.MinBuzzScore,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
		OnUnparsable:  cfg.OnUnparsable,
		OnNoTemplate:  cfg.OnNoTemplate,
		CacheTTL:      time.Duration(cfg.CacheTTLHours) * time.Hour,
	}

	processed, err := p.Process(ctx, items)
	if err != nil {
		log.Fatalf("Pipeline error: %v", err)
	}

	if cfg.FetchTemplateAssets {
		verifyTemplateAssets(processed)
	}

	path, err := writeOutput(cfg.OutputDir, processed)
	if err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	logger.Info("meme records written", "count", len(processed), "path", path)

	stats := metrics.Global.GetStats()
	logger.Info("run stats",
		"seen", stats["total_items_seen"],
		"duplicates", stats["duplicates_filtered"],
		"low_buzz", stats["low_buzz_skipped"],
		"llm_calls", stats["llm_calls"],
		"processed", stats["items_processed"])
}

// buildGenerator returns the Generator for the configured backend and a
// cleanup func for backends that hold connections.
func buildGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, func(), error) {
	switch cfg.LLMBackend {
	case config.BackendGemini:
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKeys, cfg.MaxCallsPerKeyPerMinute, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	case config.BackendOllama:
		return llm.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, cfg.RequestTimeout), func() {}, nil
	case config.BackendOpenAI:
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM backend %q", cfg.LLMBackend)
	}
}

// collectItems gathers news from every configured ingestion path. A missing
// source is logged and skipped; only an empty total is worth stopping for.
func collectItems(cfg *config.Config) []news.Item {
	var items []news.Item

	if sources, err := ingest.LoadSources(cfg.SourcesConfigPath); err != nil {
		logger.Warn("skipping RSS ingestion", "error", err)
	} else if len(sources) > 0 {
		feedItems, err := ingest.FetchAllSources(sources)
		if err != nil {
			logger.Error("RSS ingestion failed", "error", err)
		} else {
			items = append(items, feedItems...)
		}
	}

	if cfg.NewsJSONDir != "" {
		path, err := ingest.FindLatestNewsFile(cfg.NewsJSONDir)
		if err != nil {
			logger.Warn("skipping JSON ingestion", "error", err)
			return items
		}
		fileItems, err := ingest.LoadItemsFromFile(path)
		if err != nil {
			logger.Error("JSON ingestion failed", "error", err)
			return items
		}
		items = append(items, fileItems...)
	}

	return items
}

// verifyTemplateAssets downloads each matched template image once to catch
// dead references before the output file is published.
func verifyTemplateAssets(processed []pipeline.ProcessedItem) {
	checked := map[string]bool{}
	for _, item := range processed {
		ref := item.TemplateImageRef
		if ref == "" || checked[ref] {
			continue
		}
		checked[ref] = true

		data, err := catalog.FetchImage(ref)
		if err != nil {
			logger.Error("template asset check failed", "ref", ref, "error", err)
			continue
		}
		logger.Debug("template asset ok", "ref", ref, "bytes", len(data))
	}
}

func writeOutput(dir string, processed []pipeline.ProcessedItem) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	out := output{
		GeneratedAt:    time.Now().Format(time.RFC3339),
		TotalProcessed: len(processed),
		Items:          processed,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("sarcastic_news_memes_%s.json", time.Now().Format("20060102_150405")))
	return path, os.WriteFile(path, data, 0o644)
}
