package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnv populates unset fields of cfg from environment variables.
// Values already in cfg (set by flags before this call) take precedence
// over env; Load applies the config file after env, so the file only fills
// what flags and env left unset. This matches the teacher's
// ApplyEnvToConfig "fill only zero values" merge strategy.
func ApplyEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	setInt(&cfg.RateCapacity, "THEODORE_RATE_CAPACITY")
	setFloat(&cfg.RateRefillPerSec, "THEODORE_RATE_REFILL_PER_SEC")
	setInt(&cfg.PoolWorkers, "THEODORE_POOL_WORKERS")

	setDuration(&cfg.TimeoutDefault, "THEODORE_TIMEOUT_DEFAULT")
	setDuration(&cfg.TimeoutSimple, "THEODORE_TIMEOUT_SIMPLE")
	setDuration(&cfg.TimeoutComplex, "THEODORE_TIMEOUT_COMPLEX")
	setDuration(&cfg.TimeoutMax, "THEODORE_TIMEOUT_MAX")
	setFloat(&cfg.TimeoutIncreaseFactor, "THEODORE_TIMEOUT_INCREASE_FACTOR")

	setInt(&cfg.RetryMaxAttempts, "THEODORE_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.RetryBaseBackoff, "THEODORE_RETRY_BASE_BACKOFF")
	setDuration(&cfg.RetryMaxBackoff, "THEODORE_RETRY_MAX_BACKOFF")
	setFloat(&cfg.RetryJitter, "THEODORE_RETRY_JITTER")

	setInt(&cfg.ExtractMaxConcurrent, "THEODORE_EXTRACT_MAX_CONCURRENT")
	setInt(&cfg.ExtractPrimaryThresholdChars, "THEODORE_EXTRACT_PRIMARY_THRESHOLD_CHARS")
	setInt(&cfg.ExtractPromptBudgetChars, "THEODORE_EXTRACT_PROMPT_BUDGET_CHARS")

	setInt(&cfg.DiscoveryMaxURLs, "THEODORE_DISCOVERY_MAX_URLS")
	setInt(&cfg.DiscoveryRecursionDepth, "THEODORE_DISCOVERY_RECURSION_DEPTH")

	setInt(&cfg.EmbeddingDimension, "THEODORE_EMBEDDING_DIMENSION")

	setString(&cfg.LLMProvider, "THEODORE_LLM_PROVIDER")
	setString(&cfg.LLMBaseURL, "THEODORE_LLM_BASE_URL")
	setString(&cfg.LLMModel, "THEODORE_LLM_MODEL")
	setString(&cfg.LLMAPIKey, "THEODORE_LLM_API_KEY")
	setString(&cfg.EmbeddingModel, "THEODORE_EMBEDDING_MODEL")

	setString(&cfg.BedrockRegion, "THEODORE_BEDROCK_REGION")
	setString(&cfg.GeminiAPIKey, "THEODORE_GEMINI_API_KEY")

	setString(&cfg.VectorStoreKind, "THEODORE_VECTOR_STORE_KIND")
	setString(&cfg.QdrantURL, "THEODORE_QDRANT_URL")
	setString(&cfg.QdrantAPIKey, "THEODORE_QDRANT_API_KEY")
	setString(&cfg.QdrantCollection, "THEODORE_QDRANT_COLLECTION")

	if len(cfg.InsecureTLSHosts) == 0 {
		if v := strings.TrimSpace(os.Getenv("THEODORE_INSECURE_TLS_HOSTS")); v != "" {
			for _, h := range strings.Split(v, ",") {
				if h = strings.TrimSpace(h); h != "" {
					cfg.InsecureTLSHosts = append(cfg.InsecureTLSHosts, h)
				}
			}
		}
	}

	setDuration(&cfg.OverallDeadline, "THEODORE_OVERALL_DEADLINE")
	setString(&cfg.CacheDir, "THEODORE_CACHE_DIR")

	if s := strings.ToLower(strings.TrimSpace(os.Getenv("THEODORE_VERBOSE"))); s != "" && !cfg.Verbose {
		cfg.Verbose = s == "1" || s == "true" || s == "yes" || s == "on"
	}
}

func setString(dst *string, key string) {
	if *dst != "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if *dst != 0 {
		return
	}
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if *dst != 0 {
		return
	}
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if *dst != 0 {
		return
	}
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
