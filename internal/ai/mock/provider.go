// Package mock provides Synthesizer and Embedder doubles for testing and
// for running the server without an LLM backend.
package mock

import (
	"context"
	"hash/fnv"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/ai/aierrors"
	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

const mockDimension = 768

// Synthesizer satisfies models.Synthesizer for testing.
type Synthesizer struct {
	Name_        string
	GenerateFunc func(ctx context.Context, req models.SynthesisRequest) (models.Synthesis, error)
}

func (m *Synthesizer) Name() string { return m.Name_ }

func (m *Synthesizer) Generate(ctx context.Context, req models.SynthesisRequest) (models.Synthesis, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return models.Synthesis{}, nil
}

// NewSynthesizer returns a Synthesizer with sensible default responses.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, req models.SynthesisRequest) (models.Synthesis, error) {
			return models.Synthesis{
				ExecutiveSummary: "Simulated due-diligence summary for SIREN " + req.Siren,
				Breakdown: map[string]string{
					"identite":   "Identité simulée",
					"finances":   "Situation financière simulée",
					"reputation": "Réputation simulée",
					"conclusion": "Conclusion simulée",
				},
				RedFlags:        []string{},
				Recommendation:  models.RecommendationFavorable,
				ConfidenceScore: 0.85,
			}, nil
		},
	}
}

// NewFailingSynthesizer returns a Synthesizer that always returns err.
func NewFailingSynthesizer(err error) *Synthesizer {
	return &Synthesizer{
		Name_: "mock-failing",
		GenerateFunc: func(_ context.Context, _ models.SynthesisRequest) (models.Synthesis, error) {
			return models.Synthesis{}, err
		},
	}
}

// NewTimeoutSynthesizer returns a Synthesizer that blocks until its context
// is cancelled.
func NewTimeoutSynthesizer() *Synthesizer {
	return &Synthesizer{
		Name_: "mock-timeout",
		GenerateFunc: func(ctx context.Context, _ models.SynthesisRequest) (models.Synthesis, error) {
			<-ctx.Done()
			return models.Synthesis{}, aierrors.ErrInferenceTimeout
		},
	}
}

// Embedder satisfies models.Embedder for testing. The default produces a
// deterministic pseudo-vector derived from the input text so that equal
// texts embed equally.
type Embedder struct {
	Name_     string
	Dim       int
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *Embedder) Name() string   { return m.Name_ }
func (m *Embedder) Dimension() int { return m.Dim }

func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return deterministicVector(text, m.Dim), nil
}

// NewEmbedder returns an Embedder with deterministic default vectors.
func NewEmbedder() *Embedder {
	return &Embedder{Name_: "mock", Dim: mockDimension}
}

// NewFailingEmbedder returns an Embedder that always returns err.
func NewFailingEmbedder(err error) *Embedder {
	return &Embedder{
		Name_: "mock-failing",
		Dim:   mockDimension,
		EmbedFunc: func(_ context.Context, _ string) ([]float32, error) {
			return nil, err
		},
	}
}

func deterministicVector(text string, dim int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()
	vec := make([]float32, dim)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed>>33)%1000) / 1000.0
	}
	return vec
}

var (
	_ models.Synthesizer = (*Synthesizer)(nil)
	_ models.Embedder    = (*Embedder)(nil)
)
