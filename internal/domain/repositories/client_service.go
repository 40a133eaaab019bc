package repositories

import (
	"context"

	"google.golang.org/genai"
)

// GenAIClientPool hands out one GenAI client per API key. Credentials arrive
// per request, so clients are cached by key rather than held as a singleton.
type GenAIClientPool interface {
	GetClient(ctx context.Context, apiKey string) (*genai.Client, error)

	Close() error
}
