package models

import "context"

// Recommendation labels a synthesis may carry. Anything else is normalized
// to RecommendationUnknown.
const (
	RecommendationFavorable   = "Favorable"
	RecommendationCaution     = "Prudence"
	RecommendationUnfavorable = "Défavorable"
	RecommendationUnknown     = "Indéterminé"
)

// NormalizeRecommendation maps free-form model output onto the fixed label set.
func NormalizeRecommendation(label string) string {
	switch label {
	case RecommendationFavorable, RecommendationCaution, RecommendationUnfavorable:
		return label
	}
	return RecommendationUnknown
}

// SynthesisRequest is the input to a synthesis operation: everything the
// pipeline collected before the synthesis phase.
type SynthesisRequest struct {
	Siren    string
	Variant  Variant
	Sections []Section
}

// Synthesis is the structured report produced from collected sections.
type Synthesis struct {
	ExecutiveSummary string            `json:"executive_summary"`
	Breakdown        map[string]string `json:"sections"`
	RedFlags         []string          `json:"red_flags"`
	Recommendation   string            `json:"recommendation"`
	ConfidenceScore  float64           `json:"confidence_score"`
}

// Synthesizer turns collected sections into a structured report.
// Never call a specific LLM backend directly — always inject this interface.
type Synthesizer interface {
	Generate(ctx context.Context, req SynthesisRequest) (Synthesis, error)
	Name() string
}

// Embedder converts text into a fixed-dimensionality vector. The dimension
// must match the one used when chunks were stored.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Name() string
}
