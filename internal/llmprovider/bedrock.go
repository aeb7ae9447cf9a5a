package llmprovider

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"

	"github.com/theodore-ai/theodore/internal/apperrors"
)

// BedrockProvider adapts Amazon Bedrock's InvokeModel API to Client, one of
// the two production LLM variants named in spec §9. Credentials are opaque
// startup configuration per spec §1's Non-goals ("authentication to
// third-party providers") — this type never branches on credential shape
// beyond what the AWS SDK's default chain resolves.
//
// Grounded on jmylchreest-refyne-api's use of aws-sdk-go-v2/config and
// aws-sdk-go-v2/credentials for client construction; the invoke/response
// envelope follows the Anthropic-on-Bedrock message format.
type BedrockProvider struct {
	client  *bedrockruntime.Client
	modelID string
}

// BedrockConfig configures provider construction.
type BedrockConfig struct {
	Region          string
	ModelID         string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// NewBedrockProvider builds a provider using either static credentials (if
// provided) or the AWS SDK's default credential chain.
func NewBedrockProvider(ctx context.Context, cfg BedrockConfig) (*BedrockProvider, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindProviderFatal, "load aws config", err)
	}
	return &BedrockProvider{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
	}, nil
}

type bedrockMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type bedrockInvokeBody struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Temperature      float32          `json:"temperature"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
}

type bedrockInvokeResult struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (p *BedrockProvider) Complete(ctx context.Context, req Request) (Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	body, err := json.Marshal(bedrockInvokeBody{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxTokens,
		Temperature:      req.Temperature,
		System:           req.System,
		Messages:         []bedrockMessage{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.KindInvalidResp, "marshal bedrock request", err)
	}

	out, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.modelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return Response{}, classifyBedrockError(err)
	}

	var result bedrockInvokeResult
	if err := json.Unmarshal(out.Body, &result); err != nil {
		return Response{}, apperrors.Wrap(apperrors.KindInvalidResp, "parse bedrock response", err)
	}
	var sb strings.Builder
	for _, c := range result.Content {
		sb.WriteString(c.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return Response{}, apperrors.New(apperrors.KindInvalidResp, "empty bedrock completion")
	}
	return Response{
		Text:      text,
		TokensIn:  result.Usage.InputTokens,
		TokensOut: result.Usage.OutputTokens,
	}, nil
}

func (p *BedrockProvider) Health(ctx context.Context) error {
	_, err := p.Complete(ctx, Request{Prompt: "ping", MaxTokens: 1})
	return err
}

func classifyBedrockError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException":
			return apperrors.Wrap(apperrors.KindRateLimited, "bedrock throttled", err)
		case "AccessDeniedException", "UnrecognizedClientException", "ValidationException":
			return apperrors.Wrap(apperrors.KindProviderFatal, "bedrock auth/quota error", err)
		case "ModelTimeoutException":
			return apperrors.Wrap(apperrors.KindTimeout, "bedrock model timeout", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.KindTimeout, "bedrock call timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.Wrap(apperrors.KindCancelled, "bedrock call cancelled", err)
	}
	return apperrors.Wrap(apperrors.KindTransport, "bedrock call failed", err)
}
