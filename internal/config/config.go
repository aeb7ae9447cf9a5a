// Package config resolves runtime settings with three-layer precedence:
// command-line flags beat environment variables beat a YAML/JSON config
// file beat built-in defaults (spec §6's "Configuration (recognized
// keys)" table). Every recognized key from that table is a field here.
//
// Grounded on the teacher's internal/app/config.go /
// config_env.go / config_file.go trio; the nested-section YAML schema and
// the "leave zero-value alone unless env/file sets it" merge strategy are
// kept, retargeted from research-report settings (search engine, synthesis
// prompts, distribution) to pipeline settings (rate limiter, worker pool,
// adaptive timeouts, retry policy, extractor, discovery, embedding).
package config

import "time"

// Config holds fully-resolved runtime settings for one pipeline run.
type Config struct {
	// Rate Limiter (C1)
	RateCapacity       int
	RateRefillPerSec   float64

	// Worker Pool (C2)
	PoolWorkers int

	// Adaptive timeouts
	TimeoutDefault       time.Duration
	TimeoutSimple        time.Duration
	TimeoutComplex       time.Duration
	TimeoutMax           time.Duration
	TimeoutIncreaseFactor float64

	// Retry policy
	RetryMaxAttempts int
	RetryBaseBackoff time.Duration
	RetryMaxBackoff  time.Duration
	RetryJitter      float64

	// Extractor
	ExtractMaxConcurrent       int
	ExtractPrimaryThresholdChars int
	ExtractPromptBudgetChars   int

	// Discovery
	DiscoveryMaxURLs        int
	DiscoveryRecursionDepth int

	// Embedding
	EmbeddingDimension int

	// LLM provider selection (spec §9: Bedrock-backed, Gemini-backed, test-stub)
	LLMProvider    string // "openai", "bedrock", "gemini", "stub"
	LLMBaseURL     string
	LLMModel       string
	LLMAPIKey      string
	EmbeddingModel string

	// Bedrock-specific
	BedrockRegion string

	// Gemini-specific
	GeminiAPIKey string

	// Vector store
	VectorStoreKind string // "qdrant", "memory"
	QdrantURL       string
	QdrantAPIKey    string
	QdrantCollection string

	// Per-host TLS opt-out list. Load parses and normalizes it; no fetch or
	// dial path consults it, so it does not change TLS verification.
	InsecureTLSHosts []string

	// Overall deadline for a single analyze() call.
	OverallDeadline time.Duration

	CacheDir string
	Verbose  bool
}

// Defaults returns the built-in baseline configuration, the lowest-priority
// layer in the flag > env > file > defaults precedence chain.
func Defaults() Config {
	return Config{
		RateCapacity:                 5,
		RateRefillPerSec:             0.5,
		PoolWorkers:                  4,
		TimeoutDefault:               15 * time.Second,
		TimeoutSimple:                10 * time.Second,
		TimeoutComplex:               60 * time.Second,
		TimeoutMax:                   120 * time.Second,
		TimeoutIncreaseFactor:        1.5,
		RetryMaxAttempts:             3,
		RetryBaseBackoff:             500 * time.Millisecond,
		RetryMaxBackoff:              8 * time.Second,
		RetryJitter:                  0.2,
		ExtractMaxConcurrent:         10,
		ExtractPrimaryThresholdChars: 500,
		ExtractPromptBudgetChars:     100000,
		DiscoveryMaxURLs:             1000,
		DiscoveryRecursionDepth:      3,
		EmbeddingDimension:           1536,
		LLMProvider:                  "stub",
		VectorStoreKind:              "memory",
		QdrantCollection:             "theodore-companies",
		OverallDeadline:              90 * time.Second,
	}
}
