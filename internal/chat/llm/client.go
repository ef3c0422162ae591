package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openaiapi "github.com/sashabaranov/go-openai"

	"github.com/i474232898/weather-chat/internal/chat"
)

const (
	DefaultBaseURL = "https://ai.gateway.lovable.dev/v1"
	DefaultModel   = "google/gemini-2.5-flash"
)

var errEmptyResponse = errors.New("completion returned no choices")

// Config selects the OpenAI-compatible gateway and model.
type Config struct {
	Token      string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Client implements chat.Completer against an OpenAI-compatible
// chat-completion endpoint.
type Client struct {
	api   *openaiapi.Client
	model string
}

func NewClient(cfg Config) *Client {
	apiCfg := openaiapi.DefaultConfig(cfg.Token)
	apiCfg.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		apiCfg.HTTPClient = cfg.HTTPClient
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		api:   openaiapi.NewClientWithConfig(apiCfg),
		model: model,
	}
}

func (c *Client) Complete(ctx context.Context, req chat.CompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openaiapi.ChatCompletionRequest{
		Model:    c.model,
		Stream:   false,
		Messages: toAPIMessages(req.Messages),
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %w", chat.ErrClassifierUnavailable, errEmptyResponse)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classifyError maps the upstream HTTP status onto the chat sentinels.
func classifyError(err error) error {
	switch statusCode(err) {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", chat.ErrRateLimited, err)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %w", chat.ErrPaymentRequired, err)
	default:
		return fmt.Errorf("%w: %w", chat.ErrClassifierUnavailable, err)
	}
}

func statusCode(err error) int {
	var apiErr *openaiapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openaiapi.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func toAPIMessages(msgs []chat.Message) []openaiapi.ChatCompletionMessage {
	res := make([]openaiapi.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, openaiapi.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return res
}
