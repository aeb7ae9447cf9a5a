package config

import (
	"flag"
	"fmt"
)

// FlagSet binds CLI flags to a Config, mirroring the teacher's dotted flag
// naming convention (cmd/goresearch/main.go: "llm.base", "max.sources",
// "cache.dir", ...).
func FlagSet(fs *flag.FlagSet, cfg *Config, configFile *string) {
	fs.StringVar(configFile, "config", "", "Path to YAML/JSON config file")

	fs.IntVar(&cfg.RateCapacity, "rate.capacity", 0, "Rate limiter token bucket capacity")
	fs.Float64Var(&cfg.RateRefillPerSec, "rate.refill_per_sec", 0, "Rate limiter refill rate, tokens/sec")
	fs.IntVar(&cfg.PoolWorkers, "pool.workers", 0, "Worker pool size")

	fs.DurationVar(&cfg.TimeoutDefault, "timeout.default", 0, "Default per-request timeout")
	fs.DurationVar(&cfg.TimeoutSimple, "timeout.simple", 0, "Per-request timeout for known-simple hosts")
	fs.DurationVar(&cfg.TimeoutComplex, "timeout.complex", 0, "Per-request timeout for known-complex hosts")
	fs.DurationVar(&cfg.TimeoutMax, "timeout.max", 0, "Hard cap on adaptive per-request timeout")
	fs.Float64Var(&cfg.TimeoutIncreaseFactor, "timeout.increase_factor", 0, "Per-retry timeout growth multiplier")

	fs.IntVar(&cfg.RetryMaxAttempts, "retry.max_attempts", 0, "Maximum attempts per phase-local operation")
	fs.DurationVar(&cfg.RetryBaseBackoff, "retry.base_backoff", 0, "Base backoff duration")
	fs.DurationVar(&cfg.RetryMaxBackoff, "retry.max_backoff", 0, "Max backoff duration")
	fs.Float64Var(&cfg.RetryJitter, "retry.jitter", 0, "Backoff jitter fraction")

	fs.IntVar(&cfg.ExtractMaxConcurrent, "extract.max_concurrent", 0, "Max concurrent extraction workers")
	fs.IntVar(&cfg.ExtractPrimaryThresholdChars, "extract.primary_threshold_chars", 0, "Char count floor for primary extractor")
	fs.IntVar(&cfg.ExtractPromptBudgetChars, "extract.prompt_budget_chars", 0, "Max chars of extracted text fed to aggregation prompt")

	fs.IntVar(&cfg.DiscoveryMaxURLs, "discovery.max_urls", 0, "CandidateSet size cap")
	fs.IntVar(&cfg.DiscoveryRecursionDepth, "discovery.recursion_depth", 0, "Recursive crawl depth cap")

	fs.IntVar(&cfg.EmbeddingDimension, "embedding.dimension", 0, "Embedding vector dimension")
	fs.StringVar(&cfg.EmbeddingModel, "embedding.model", "", "Embedding model name")

	fs.StringVar(&cfg.LLMProvider, "llm.provider", "", "LLM provider: openai, bedrock, gemini, or stub")
	fs.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	fs.StringVar(&cfg.LLMModel, "llm.model", "", "Model name")
	fs.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key for OpenAI-compatible server")

	fs.StringVar(&cfg.BedrockRegion, "bedrock.region", "", "AWS region for Bedrock")
	fs.StringVar(&cfg.GeminiAPIKey, "gemini.key", "", "Gemini API key")

	fs.StringVar(&cfg.VectorStoreKind, "vectorstore.kind", "", "Vector store backend: qdrant or memory")
	fs.StringVar(&cfg.QdrantURL, "vectorstore.qdrant_url", "", "Qdrant gRPC endpoint")
	fs.StringVar(&cfg.QdrantAPIKey, "vectorstore.qdrant_key", "", "Qdrant API key")
	fs.StringVar(&cfg.QdrantCollection, "vectorstore.collection", "", "Qdrant collection name")

	fs.DurationVar(&cfg.OverallDeadline, "deadline", 0, "Overall wall-clock budget per analyze() call")
	fs.StringVar(&cfg.CacheDir, "cache.dir", "", "Cache directory path")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
}

// Load resolves a Config on top of the flags already parsed into cfg via
// FlagSet: it applies environment variables (ApplyEnv), then an optional
// config file, then Defaults(). Each layer fills only fields still unset,
// giving flags > env > file > defaults.
func Load(cfg *Config, configFile string) error {
	ApplyEnv(cfg)

	if configFile != "" {
		fc, err := LoadFile(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		ApplyFile(cfg, fc)
	}

	def := Defaults()
	mergeDefaults(cfg, &def)
	cfg.InsecureTLSHosts = normalizeTLSHosts(cfg.InsecureTLSHosts)
	return nil
}

func mergeDefaults(cfg, def *Config) {
	if cfg.RateCapacity == 0 {
		cfg.RateCapacity = def.RateCapacity
	}
	if cfg.RateRefillPerSec == 0 {
		cfg.RateRefillPerSec = def.RateRefillPerSec
	}
	if cfg.PoolWorkers == 0 {
		cfg.PoolWorkers = def.PoolWorkers
	}
	if cfg.TimeoutDefault == 0 {
		cfg.TimeoutDefault = def.TimeoutDefault
	}
	if cfg.TimeoutSimple == 0 {
		cfg.TimeoutSimple = def.TimeoutSimple
	}
	if cfg.TimeoutComplex == 0 {
		cfg.TimeoutComplex = def.TimeoutComplex
	}
	if cfg.TimeoutMax == 0 {
		cfg.TimeoutMax = def.TimeoutMax
	}
	if cfg.TimeoutIncreaseFactor == 0 {
		cfg.TimeoutIncreaseFactor = def.TimeoutIncreaseFactor
	}
	if cfg.RetryMaxAttempts == 0 {
		cfg.RetryMaxAttempts = def.RetryMaxAttempts
	}
	if cfg.RetryBaseBackoff == 0 {
		cfg.RetryBaseBackoff = def.RetryBaseBackoff
	}
	if cfg.RetryMaxBackoff == 0 {
		cfg.RetryMaxBackoff = def.RetryMaxBackoff
	}
	if cfg.RetryJitter == 0 {
		cfg.RetryJitter = def.RetryJitter
	}
	if cfg.ExtractMaxConcurrent == 0 {
		cfg.ExtractMaxConcurrent = def.ExtractMaxConcurrent
	}
	if cfg.ExtractPrimaryThresholdChars == 0 {
		cfg.ExtractPrimaryThresholdChars = def.ExtractPrimaryThresholdChars
	}
	if cfg.ExtractPromptBudgetChars == 0 {
		cfg.ExtractPromptBudgetChars = def.ExtractPromptBudgetChars
	}
	if cfg.DiscoveryMaxURLs == 0 {
		cfg.DiscoveryMaxURLs = def.DiscoveryMaxURLs
	}
	if cfg.DiscoveryRecursionDepth == 0 {
		cfg.DiscoveryRecursionDepth = def.DiscoveryRecursionDepth
	}
	if cfg.EmbeddingDimension == 0 {
		cfg.EmbeddingDimension = def.EmbeddingDimension
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = def.LLMProvider
	}
	if cfg.VectorStoreKind == "" {
		cfg.VectorStoreKind = def.VectorStoreKind
	}
	if cfg.QdrantCollection == "" {
		cfg.QdrantCollection = def.QdrantCollection
	}
	if cfg.OverallDeadline == 0 {
		cfg.OverallDeadline = def.OverallDeadline
	}
}
