// Command theodorebatch drives batch.Runner over a CSV file of
// company_name,website rows and writes one JSON object per line to an
// output file, the spreadsheet-driving analog of theodorecli.
//
// Grounded on the teacher's cmd/goresearch/main.go for flag/config/zerolog
// setup; row I/O itself (CSV in, JSON-lines out) is the thin external
// adapter the Non-goals leave to the caller, implemented here with the
// standard library since no third-party CSV library appears anywhere in
// the retrieval pack.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/theodore-ai/theodore/internal/batch"
	"github.com/theodore-ai/theodore/internal/cache"
	"github.com/theodore-ai/theodore/internal/config"
	"github.com/theodore-ai/theodore/internal/discovery"
	"github.com/theodore-ai/theodore/internal/fetch"
	"github.com/theodore-ai/theodore/internal/llmprovider"
	"github.com/theodore-ai/theodore/internal/orchestrator"
	"github.com/theodore-ai/theodore/internal/ratelimit"
	"github.com/theodore-ai/theodore/internal/robots"
	"github.com/theodore-ai/theodore/internal/sitecomplexity"
	"github.com/theodore-ai/theodore/internal/workerpool"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputPath   string
		outputPath  string
		configFile  string
		concurrency int
	)

	cfg := config.Config{}
	config.FlagSet(flag.CommandLine, &cfg, &configFile)
	flag.StringVar(&inputPath, "input", "companies.csv", "CSV file with company_name,website columns")
	flag.StringVar(&outputPath, "output", "results.jsonl", "Path to write one JSON result per row")
	flag.IntVar(&concurrency, "concurrency", 4, "Number of rows analyzed concurrently")
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

	rows, err := readRows(inputPath)
	if err != nil {
		log.Error().Err(err).Msg("read input rows")
		os.Exit(2)
	}

	if err := run(cfg, rows, outputPath, concurrency); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func readRows(path string) ([]batch.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var rows []batch.Row
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if len(record) < 2 {
			continue
		}
		name, website := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if first && strings.EqualFold(name, "company_name") {
			first = false
			continue
		}
		first = false
		if name == "" && website == "" {
			continue
		}
		rows = append(rows, batch.Row{CompanyName: name, Website: website})
	}
	return rows, nil
}

func run(cfg config.Config, rows []batch.Row, outputPath string, concurrency int) error {
	ctx := context.Background()

	client, embedder, err := buildLLMClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build llm client: %w", err)
	}

	httpCache := &cache.HTTPCache{Dir: cfg.CacheDir}
	fc := &fetch.Client{
		HTTPClient:           &http.Client{},
		UserAgent:            "theodorebatch/1.0",
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

	orch := &orchestrator.Orchestrator{
		Discoverer: &discovery.Discoverer{
			Fetch:     fc,
			Robots:    &robots.Manager{HTTPClient: &http.Client{}, Cache: httpCache, UserAgent: "theodorebatch/1.0"},
			UserAgent: "theodorebatch/1.0",
		},
		Fetch:       fc,
		Pool:        pool,
		EmbedClient: embedder,
		Complexity:  sitecomplexity.NewTracker(),
		Config:      cfg,
	}
	runner := &batch.Runner{Orchestrator: orch, Concurrency: concurrency}

	results := runner.AnalyzeAll(ctx, rows)

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	failed := 0
	for _, res := range results {
		if res.Outcome.IsFailure() {
			failed++
		}
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("write result for %s: %w", res.Row.CompanyName, err)
		}
	}
	log.Info().Int("rows", len(results)).Int("failed", failed).Msg("batch run complete")
	return nil
}

// buildLLMClient mirrors cmd/theodorecli's provider switch so a batch run
// picks up the same Bedrock/Gemini/stub backends a single-company run would.
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
