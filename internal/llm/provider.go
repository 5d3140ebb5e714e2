package llm

import "context"

// Provider is the text-generation collaborator. Implementations return the
// model's raw text; callers own all parsing of it.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes a single-turn or multi-turn prompt.
type Request struct {
	// System is the system prompt.
	System string

	Messages []Message

	// Schema, when set, asks the provider for structured output and the
	// response is validated against it before being returned.
	Schema *Schema

	// JSONMode asks for a bare JSON object without enforcing a schema.
	JSONMode bool

	MaxTokens   int
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema definition plus a name used by providers that
// require one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	// Content is the generated text, unmodified.
	Content string

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds the common single-user-message request.
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}
