package chat

import "github.com/i474232898/weather-chat/internal/weather"

// Role decides which side of the conversation a message belongs to.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a transcript. Weather is only set on assistant
// messages that carried a report.
type Message struct {
	Role    Role            `json:"role"`
	Content string          `json:"content"`
	Weather *weather.Report `json:"weather,omitempty"`
}

// OutcomeKind tags a classifier result.
type OutcomeKind int

const (
	OutcomeCity OutcomeKind = iota + 1
	OutcomeReply
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCity:
		return "city"
	case OutcomeReply:
		return "reply"
	default:
		return "unknown"
	}
}

// Outcome is what the classifier made of the latest user utterance: a
// bare city name or a conversational reply to hand back verbatim.
type Outcome struct {
	Kind OutcomeKind
	Text string
}

// Reply is the orchestrator's answer for one request.
type Reply struct {
	Message string          `json:"message"`
	Weather *weather.Report `json:"weather,omitempty"`
}
