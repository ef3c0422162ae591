package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/i474232898/weather-chat/internal/common"
)

// SystemPrompt constrains the model to a bare city name or a clarifying
// question.
const SystemPrompt = `You are a weather assistant. Extract the city name from the user's message.
If they ask about weather, return ONLY the city name with no other text.
If no city is mentioned, respond conversationally asking which city they want to know about.
Examples:
- "What's the weather in Paris?" -> "Paris"
- "Is it raining in Tokyo?" -> "Tokyo"
- "Tell me about the weather" -> "I'd be happy to help! Which city would you like to know about?"`

// maxCityNameLength is the longest model output still treated as a city.
const maxCityNameLength = 50

// Completer is the port to a chat-completion model. Implementations return
// the first choice's content and map upstream 429/402 onto ErrRateLimited
// and ErrPaymentRequired.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is a single, non-streaming completion call.
type CompletionRequest struct {
	Messages []Message
}

// Classifier turns the latest user utterance into an Outcome.
type Classifier struct {
	completer Completer
	prompt    string
}

// NewClassifier creates a Classifier using SystemPrompt.
func NewClassifier(completer Completer) *Classifier {
	return &Classifier{completer: completer, prompt: SystemPrompt}
}

// Classify sends one completion request for the last message of
// transcript. Callers must have validated the transcript.
func (c *Classifier) Classify(ctx context.Context, transcript []Message) (Outcome, error) {
	if len(transcript) == 0 {
		return Outcome{}, ErrInvalidRequest
	}
	latest := transcript[len(transcript)-1]

	raw, err := c.completer.Complete(ctx, CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: c.prompt},
			{Role: RoleUser, Content: latest.Content},
		},
	})
	if err != nil {
		if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrPaymentRequired) || errors.Is(err, ErrClassifierUnavailable) {
			return Outcome{}, err
		}
		return Outcome{}, fmt.Errorf("%w: %w", ErrClassifierUnavailable, err)
	}

	return ClassifyText(raw), nil
}

// ClassifyText applies the city/reply heuristic to raw model output: it is
// a reply when longer than 50 characters, when it contains a '?', or when
// it mentions "which city" in any case. "Tokyo?" is therefore a reply.
func ClassifyText(raw string) Outcome {
	text := strings.TrimSpace(raw)
	if utf8.RuneCountInString(text) > maxCityNameLength || common.ContainsAnyFold(text, "?", "which city") {
		return Outcome{Kind: OutcomeReply, Text: text}
	}
	return Outcome{Kind: OutcomeCity, Text: text}
}
