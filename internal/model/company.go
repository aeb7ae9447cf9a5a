package model

import "math"

// LeadershipEntry is a nested record within CompanyRecord (spec §3).
type LeadershipEntry struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// CompanyRecord is the aggregated business-intelligence output of Phase 4.
// Every field is a pointer or a nil-able slice so that "unknown" is
// distinguishable from an empty string/list (spec §3's "absence is
// distinguishable from empty" invariant).
type CompanyRecord struct {
	// Identity
	Name        string   `json:"name"`
	Website     *string  `json:"website,omitempty"`
	Description *string  `json:"description,omitempty"`
	Industry    *string  `json:"industry,omitempty"`

	// Business model
	BusinessModelClass *string `json:"business_model_class,omitempty"`
	ValueProposition   *string `json:"value_proposition,omitempty"`
	TargetMarket       *string `json:"target_market,omitempty"`
	PricingMechanism   *string `json:"pricing_mechanism,omitempty"`

	// Offerings
	ProductsServices       []string `json:"products_services,omitempty"`
	KeyServices            []string `json:"key_services,omitempty"`
	TechStack              []string `json:"tech_stack,omitempty"`
	CompetitiveAdvantages  []string `json:"competitive_advantages,omitempty"`

	// People
	Leadership []LeadershipEntry `json:"leadership,omitempty"`

	// Operational
	Location           *string `json:"location,omitempty"`
	FoundingYear       *int    `json:"founding_year,omitempty"`
	EmployeeRange      *string `json:"employee_range,omitempty"`
	HasJobListings     *bool   `json:"has_job_listings,omitempty"`

	// Classification confidence scores, each in [0,1].
	Confidence map[string]float64 `json:"confidence,omitempty"`

	// Embedding is the dense vector representation of the record, of fixed
	// dimension D (default 1536, spec §3 and §6 embedding.dimension).
	Embedding []float32 `json:"embedding,omitempty"`
}

// FieldNames returns the fixed set of named fields a complete aggregation
// prompt must ask the model to populate (spec §4.5 Phase 2/4). Used both to
// build prompts and to validate parsed LLM responses.
func FieldNames() []string {
	return []string{
		"name", "website", "description", "industry",
		"business_model_class", "value_proposition", "target_market", "pricing_mechanism",
		"products_services", "key_services", "tech_stack", "competitive_advantages",
		"leadership",
		"location", "founding_year", "employee_range", "has_job_listings",
	}
}

// IsComplete reports whether every non-absent field matches its declared
// type — in Go this is guaranteed by the struct's static types, so this is
// mostly a sanity check on confidence scores and embedding dimension used by
// tests (spec §8 invariants).
func (c *CompanyRecord) IsComplete(embeddingDim int) bool {
	for _, v := range c.Confidence {
		if v < 0 || v > 1 {
			return false
		}
	}
	if c.Embedding != nil && len(c.Embedding) != embeddingDim {
		return false
	}
	for _, f := range c.Embedding {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}
