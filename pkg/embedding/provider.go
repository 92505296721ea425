package embedding

import "context"

// Provider generates dense vectors for text. Deterministic per model version.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
