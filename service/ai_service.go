package service

import (
	"context"
)

// AIService is the model-host boundary. The pipeline treats both calls as
// pure functions (text -> vector, prompt -> text); the same implementation
// must embed chunks and questions so both live in one embedding space.
type AIService interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Generate(ctx context.Context, prompt string) (string, error)
}
