package llmprovider

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/theodore-ai/theodore/internal/apperrors"
)

// GeminiProvider adapts Google's genai SDK to Client/Embedder, the second
// production LLM variant named in spec §9.
type GeminiProvider struct {
	client         *genai.Client
	model          string
	embeddingModel string
}

// GeminiConfig configures provider construction.
type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
}

// NewGeminiProvider builds a provider against the Gemini Developer API.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindProviderFatal, "init gemini client", err)
	}
	return &GeminiProvider{client: client, model: cfg.Model, embeddingModel: cfg.EmbeddingModel}, nil
}

func (p *GeminiProvider) Complete(ctx context.Context, req Request) (Response, error) {
	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(req.Temperature)}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return Response{}, classifyGeminiError(err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Response{}, apperrors.New(apperrors.KindInvalidResp, "empty gemini completion")
	}
	result := Response{Text: text}
	if resp.UsageMetadata != nil {
		result.TokensIn = int(resp.UsageMetadata.PromptTokenCount)
		result.TokensOut = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return result, nil
}

func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	model := p.embeddingModel
	if model == "" {
		model = "text-embedding-004"
	}
	resp, err := p.client.Models.EmbedContent(ctx, model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return nil, classifyGeminiError(err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidResp, "no embedding returned")
	}
	return resp.Embeddings[0].Values, nil
}

func (p *GeminiProvider) Health(ctx context.Context) error {
	_, err := p.client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return classifyGeminiError(err)
	}
	return nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return apperrors.Wrap(apperrors.KindRateLimited, "gemini rate limited", err)
		case 401, 402, 403:
			return apperrors.Wrap(apperrors.KindProviderFatal, "gemini auth/quota error", err)
		}
		if apiErr.Code >= 500 {
			return apperrors.Wrap(apperrors.KindTransport, "gemini server error", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.KindTimeout, "gemini call timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.Wrap(apperrors.KindCancelled, "gemini call cancelled", err)
	}
	return apperrors.Wrap(apperrors.KindTransport, "gemini call failed", err)
}
