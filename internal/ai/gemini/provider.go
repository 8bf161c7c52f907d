// Package gemini implements synthesis and embeddings on Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/ai/aierrors"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/config"
	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

// EmbeddingDimension is the output dimension of text-embedding-004. It must
// match the vector column in the chunk store schema.
const EmbeddingDimension = 768

// Client wraps one genai.Client and hands out the two provider facets.
type Client struct {
	client *genai.Client
	cfg    config.GeminiConfig
}

func NewClient(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return &Client{client: client, cfg: cfg}, nil
}

func (c *Client) Close() error { return c.client.Close() }

func (c *Client) Synthesizer() *Synthesizer { return &Synthesizer{c: c} }
func (c *Client) Embedder() *Embedder       { return &Embedder{c: c} }

// Synthesizer implements models.Synthesizer on Gemini with a strict-JSON
// response schema.
type Synthesizer struct {
	c *Client
}

func (s *Synthesizer) Name() string { return "gemini" }

func (s *Synthesizer) Generate(ctx context.Context, req models.SynthesisRequest) (models.Synthesis, error) {
	model := s.c.client.GenerativeModel(s.c.cfg.Model)
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.Synthesis{}, aierrors.ErrInferenceTimeout
		}
		return models.Synthesis{}, fmt.Errorf("%w: %v", aierrors.ErrProviderUnavailable, err)
	}

	text, err := firstText(resp)
	if err != nil {
		return models.Synthesis{}, err
	}

	var syn models.Synthesis
	if err := json.Unmarshal([]byte(text), &syn); err != nil {
		return models.Synthesis{}, fmt.Errorf("%w: %v", aierrors.ErrInvalidResponse, err)
	}
	syn.Recommendation = models.NormalizeRecommendation(syn.Recommendation)
	return syn, nil
}

func buildPrompt(req models.SynthesisRequest) string {
	depth := map[models.Variant]string{
		models.VariantQuick:    "Rédige un résumé exécutif en 3 paragraphes.",
		models.VariantStandard: "Rédige un rapport de due diligence structuré avec : Identité, Santé financière, Réputation & Risques, Conclusion.",
		models.VariantFull:     "Rédige un rapport complet et détaillé incluant analyse des dirigeants, concurrence sectorielle, risques ESG.",
	}[req.Variant]
	if depth == "" {
		depth = "Rédige un rapport de due diligence structuré."
	}

	var data strings.Builder
	for _, sec := range req.Sections {
		fmt.Fprintf(&data, "[%s]\n%s\n\n", strings.ToUpper(sec.Kind), string(sec.Payload))
	}

	return fmt.Sprintf(`Tu es un expert en due diligence pour des entreprises françaises (SIREN %s).
%s
Identifie clairement les red flags. Cite tes sources (DINUM, Infogreffe, BODACC, Presse).

=== DONNÉES COLLECTÉES ===
%s===========================

FORMAT DE RÉPONSE (JSON strict) :
{
  "executive_summary": "...",
  "sections": {"identite": "...", "finances": "...", "reputation": "...", "conclusion": "..."},
  "red_flags": ["...", "..."],
  "recommendation": "Favorable | Prudence | Défavorable",
  "confidence_score": 0.0
}`, req.Siren, depth, data.String())
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", aierrors.ErrInvalidResponse)
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), nil
		}
	}
	return "", fmt.Errorf("%w: no text part", aierrors.ErrInvalidResponse)
}

// Embedder implements models.Embedder on text-embedding-004.
type Embedder struct {
	c *Client
}

func (e *Embedder) Name() string   { return "gemini" }
func (e *Embedder) Dimension() int { return EmbeddingDimension }

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	em := e.c.client.EmbeddingModel(e.c.cfg.EmbeddingModel)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, aierrors.ErrInferenceTimeout
		}
		return nil, fmt.Errorf("%w: %v", aierrors.ErrProviderUnavailable, err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding", aierrors.ErrInvalidResponse)
	}
	return res.Embedding.Values, nil
}

var (
	_ models.Synthesizer = (*Synthesizer)(nil)
	_ models.Embedder    = (*Embedder)(nil)
)
