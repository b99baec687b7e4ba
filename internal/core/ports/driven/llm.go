package driven

import "context"

// LLMService provides synchronous text generation.
type LLMService interface {
	// Generate produces a completion for the prompt. Implementations
	// must request non-streaming output and return the extracted,
	// whitespace-trimmed answer text.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the backend is reachable with a lightweight request.
	Ping(ctx context.Context) error
}
