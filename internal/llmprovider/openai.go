package llmprovider

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/theodore-ai/theodore/internal/apperrors"
)

// OpenAIProvider adapts *openai.Client to Client/Embedder/HealthChecker,
// kept close to the teacher's internal/llm/provider.go OpenAIProvider.
type OpenAIProvider struct {
	Inner          *openai.Client
	Model          string
	EmbeddingModel string
}

// NewOpenAIProvider builds a provider for an OpenAI-compatible endpoint.
// baseURL may be empty to use the public OpenAI API.
func NewOpenAIProvider(apiKey, baseURL, model, embeddingModel string, httpClient *http.Client) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIProvider{
		Inner:          openai.NewClientWithConfig(cfg),
		Model:          model,
		EmbeddingModel: embeddingModel,
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (Response, error) {
	messages := []openai.ChatCompletionMessage{}
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := p.Inner.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		N:           1,
	})
	if err != nil {
		return Response{}, classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, apperrors.New(apperrors.KindInvalidResp, "no choices returned")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return Response{}, apperrors.New(apperrors.KindInvalidResp, "empty completion content")
	}
	return Response{
		Text:      text,
		TokensIn:  resp.Usage.PromptTokens,
		TokensOut: resp.Usage.CompletionTokens,
		Cost:      0,
	}, nil
}

func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	model := openai.SmallEmbedding3
	if p.EmbeddingModel != "" {
		model = openai.EmbeddingModel(p.EmbeddingModel)
	}
	resp, err := p.Inner.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: model,
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	if len(resp.Data) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidResp, "no embedding returned")
	}
	return resp.Data[0].Embedding, nil
}

func (p *OpenAIProvider) Health(ctx context.Context) error {
	_, err := p.Inner.ListModels(ctx)
	if err != nil {
		return classifyOpenAIError(err)
	}
	return nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return apperrors.Wrap(apperrors.KindRateLimited, "openai rate limited", err)
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusPaymentRequired:
			return apperrors.Wrap(apperrors.KindProviderFatal, "openai auth/quota error", err)
		}
		if apiErr.HTTPStatusCode >= 500 {
			return apperrors.Wrap(apperrors.KindTransport, "openai server error", err)
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return apperrors.Wrap(apperrors.KindTransport, "openai request error", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.KindTimeout, "openai call timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.Wrap(apperrors.KindCancelled, "openai call cancelled", err)
	}
	return apperrors.Wrap(apperrors.KindTransport, "openai call failed", err)
}
