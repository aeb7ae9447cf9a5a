// Command theodorecli analyzes a single company: it drives the C5
// Orchestrator's Analyze() over one company name + website, optionally
// follows up with the C6 Similarity Engine's FindSimilar(), and writes the
// resulting CompanyRecord (plus similar companies, if requested) as JSON.
//
// Grounded on the teacher's cmd/goresearch/main.go: zerolog console writer
// to stderr, dotted flag names, flags > env > file > defaults config
// resolution, a run(cfg) error boundary with a narrow nonzero-exit policy.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/theodore-ai/theodore/internal/batch"
	"github.com/theodore-ai/theodore/internal/cache"
	"github.com/theodore-ai/theodore/internal/config"
	"github.com/theodore-ai/theodore/internal/discovery"
	"github.com/theodore-ai/theodore/internal/fetch"
	"github.com/theodore-ai/theodore/internal/llmprovider"
	"github.com/theodore-ai/theodore/internal/model"
	"github.com/theodore-ai/theodore/internal/orchestrator"
	"github.com/theodore-ai/theodore/internal/ratelimit"
	"github.com/theodore-ai/theodore/internal/robots"
	"github.com/theodore-ai/theodore/internal/similarity"
	"github.com/theodore-ai/theodore/internal/sitecomplexity"
	"github.com/theodore-ai/theodore/internal/vectorstore"
	"github.com/theodore-ai/theodore/internal/workerpool"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		companyName string
		website     string
		outputPath  string
		configFile  string
		findSimilar bool
		similarMax  int
		pdfPath     string
	)

	cfg := config.Config{}
	config.FlagSet(flag.CommandLine, &cfg, &configFile)
	flag.StringVar(&companyName, "company", "", "Company name to analyze")
	flag.StringVar(&website, "website", "", "Company website root URL")
	flag.StringVar(&outputPath, "output", "", "Path to write the JSON result (default stdout)")
	flag.BoolVar(&findSimilar, "similar", false, "Also run find_similar for the analyzed company")
	flag.IntVar(&similarMax, "similar.max", 5, "Maximum number of similar companies to return")
	flag.StringVar(&pdfPath, "pdf", "", "Optional path to also write a one-page PDF summary")
	flag.Parse()

	if err := config.Load(&cfg, configFile); err != nil {
		log.Error().Err(err).Msg("load config")
		os.Exit(2)
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if companyName == "" || website == "" {
		fmt.Fprintln(os.Stderr, "theodorecli: -company and -website are required")
		os.Exit(2)
	}

	if err := run(cfg, companyName, website, outputPath, pdfPath, findSimilar, similarMax); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

type cliResult struct {
	Outcome model.Outcome          `json:"outcome"`
	Similar []model.SimilarCompany `json:"similar,omitempty"`
}

func run(cfg config.Config, companyName, website, outputPath, pdfPath string, findSimilar bool, similarMax int) error {
	ctx := context.Background()

	client, embedder, err := buildLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build llm client: %w", err)
	}

	httpCache := &cache.HTTPCache{Dir: cfg.CacheDir}
	fc := &fetch.Client{
		HTTPClient:           &http.Client{},
		UserAgent:            "theodorecli/1.0",
		MaxAttempts:          3,
		PerRequestTimeout:    cfg.TimeoutDefault,
		TimeoutMultiplier:    cfg.TimeoutIncreaseFactor,
		MaxPerRequestTimeout: cfg.TimeoutMax,
		Cache:                httpCache,
		RedirectMaxHops:      5,
		MaxConcurrent:        cfg.ExtractMaxConcurrent,
	}

	limiter := ratelimit.New(ratelimit.Config{Capacity: cfg.RateCapacity, RefillPerSecond: cfg.RateRefillPerSec})
	pool := workerpool.New(workerpool.Config{
		Workers:   cfg.PoolWorkers,
		Limiter:   limiter,
		NewClient: func() llmprovider.Client { return client },
	})
	defer pool.Shutdown()

	store, err := buildVectorStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build vector store: %w", err)
	}

	orch := &orchestrator.Orchestrator{
		Discoverer: &discovery.Discoverer{
			Fetch:     fc,
			Robots:    &robots.Manager{HTTPClient: &http.Client{}, Cache: httpCache, UserAgent: "theodorecli/1.0"},
			UserAgent: "theodorecli/1.0",
		},
		Fetch:       fc,
		Pool:        pool,
		EmbedClient: embedder,
		Complexity:  sitecomplexity.NewTracker(),
		Config:      cfg,
	}

	outcome := orch.Analyze(ctx, companyName, website)

	result := cliResult{Outcome: outcome}
	if outcome.Record != nil {
		if err := store.Upsert(ctx, companyName, outcome.Record.Embedding, map[string]any{
			"name": outcome.Record.Name, "website": website,
		}); err != nil {
			log.Warn().Err(err).Msg("vector store upsert failed")
		}
	}

	if findSimilar && outcome.Record != nil {
		engine := &similarity.Engine{Store: store, Embed: embedder, Pool: pool, Fetch: fc}
		similar, simErr := engine.FindSimilar(ctx, companyName, similarMax)
		if simErr != nil {
			log.Warn().Err(simErr).Msg("find_similar failed")
		}
		result.Similar = similar
	}

	if err := writeJSON(result, outputPath); err != nil {
		return err
	}
	if pdfPath != "" && outcome.Record != nil {
		if err := batch.WriteRecordPDF(outcome.Record, pdfPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
	}
	if outcome.IsFailure() {
		return outcome.Failure
	}
	return nil
}

func writeJSON(v any, outputPath string) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if outputPath == "" {
		fmt.Println(string(b))
		return nil
	}
	return os.WriteFile(outputPath, b, 0o644)
}

func buildLLMClient(ctx context.Context, cfg config.Config) (llmprovider.Client, llmprovider.Embedder, error) {
	switch cfg.LLMProvider {
	case "openai":
		p := llmprovider.NewOpenAIProvider(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.EmbeddingModel, nil)
		return p, p, nil
	case "bedrock":
		p, err := llmprovider.NewBedrockProvider(ctx, llmprovider.BedrockConfig{Region: cfg.BedrockRegion, ModelID: cfg.LLMModel})
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case "gemini":
		p, err := llmprovider.NewGeminiProvider(ctx, llmprovider.GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.LLMModel, EmbeddingModel: cfg.EmbeddingModel})
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	default:
		stub := llmprovider.NewStubProvider(cfg.EmbeddingDimension)
		return stub, stub, nil
	}
}

func buildVectorStore(ctx context.Context, cfg config.Config) (vectorstore.Store, error) {
	if cfg.VectorStoreKind == "qdrant" && cfg.QdrantURL != "" {
		return vectorstore.NewQdrantStore(ctx, vectorstore.QdrantConfig{
			Addr:             cfg.QdrantURL,
			APIKey:           cfg.QdrantAPIKey,
			CollectionName:   cfg.QdrantCollection,
			VectorDimension:  uint64(cfg.EmbeddingDimension),
			InitializeSchema: true,
		})
	}
	return vectorstore.NewMemoryStore(), nil
}
