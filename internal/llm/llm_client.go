package llm

import "context"

// Client is the contract every upstream text-generation provider satisfies.
type Client interface {
	Ping(ctx context.Context) error
	Chat(ctx context.Context, prompt string) (string, error)
}
