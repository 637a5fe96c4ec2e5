package router

import "context"

// ModelClient executes one prompt against a chat model.
type ModelClient interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}
