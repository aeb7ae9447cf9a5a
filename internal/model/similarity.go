package model

// SimilarCompanySource tags whether a SimilarCompany came from a vector
// store hit or an LLM expansion (spec §4.6).
type SimilarCompanySource string

const (
	SourceVector SimilarCompanySource = "vector"
	SourceLLM    SimilarCompanySource = "llm"
)

// SimilarCompany is one entry in a find_similar result list.
type SimilarCompany struct {
	Name             string               `json:"name"`
	Website          *string              `json:"website,omitempty"`
	SimilarityScore  float64              `json:"similarity_score"`
	RelationshipKind string               `json:"relationship_kind,omitempty"`
	Source           SimilarCompanySource `json:"source"`
	Researched       bool                 `json:"researched"`
}
