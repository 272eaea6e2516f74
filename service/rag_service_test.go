package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/docqa-be/database"
	"github.com/tieubaoca/docqa-be/types"
)

// fakeAI is a deterministic AIService for tests. Embeddings are looked up by
// text, generation records the prompt and replies with a canned answer.
type fakeAI struct {
	embeddings map[string][]float32
	reply      string
	embedErr   error
	genErr     error
	prompts    []string
}

func (f *fakeAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, ok := f.embeddings[text]
		if !ok {
			embedding = []float32{0, 0, 1}
		}
		out[i] = embedding
	}
	return out, nil
}

func (f *fakeAI) Generate(ctx context.Context, prompt string) (string, error) {
	if f.genErr != nil {
		return "", f.genErr
	}
	f.prompts = append(f.prompts, prompt)
	return f.reply, nil
}

func seedStore(t *testing.T, store *database.MemoryStore, contents []string, embeddings [][]float32) {
	t.Helper()
	chunks := make([]types.DocumentChunk, len(contents))
	for i := range contents {
		chunks[i] = types.DocumentChunk{
			Index:     i,
			Page:      i + 1,
			Content:   contents[i],
			Embedding: embeddings[i],
		}
	}
	require.NoError(t, store.UpsertChunks(context.Background(), "fp-1", "manual.pdf", chunks))
}

func TestAnswerRetrievesMostSimilarChunks(t *testing.T) {
	store := database.NewMemoryStore()
	seedStore(t, store,
		[]string{"the pump manual", "unrelated recipe"},
		[][]float32{{1, 0, 0}, {0, 1, 0}},
	)

	ai := &fakeAI{
		embeddings: map[string][]float32{"how do I prime the pump?": {1, 0, 0}},
		reply:      "Open the bleed valve first.",
	}
	rag := NewRAGService(ai, store, types.RetrievalConfig{TopK: 1, MaxContextUnits: 8000})

	answer, err := rag.Answer(context.Background(), "how do I prime the pump?")
	require.NoError(t, err)

	assert.Equal(t, "Open the bleed valve first.", answer.Text)
	assert.Empty(t, answer.Thinking)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "the pump manual", answer.Sources[0].Content)
	assert.Equal(t, "manual.pdf", answer.Sources[0].Filename)

	require.Len(t, ai.prompts, 1)
	prompt := ai.prompts[0]
	assert.Contains(t, prompt, "Document 1 (manual.pdf, page 1):")
	assert.Contains(t, prompt, "the pump manual")
	assert.Contains(t, prompt, "Question: how do I prime the pump?")
	assert.NotContains(t, prompt, "unrelated recipe")
}

func TestAnswerContextBudgetNeverTruncates(t *testing.T) {
	store := database.NewMemoryStore()
	seedStore(t, store,
		[]string{strings.Repeat("a", 100), strings.Repeat("b", 100), strings.Repeat("c", 100)},
		[][]float32{{1, 0, 0}, {0.9, 0.1, 0}, {0.8, 0.2, 0}},
	)

	ai := &fakeAI{
		embeddings: map[string][]float32{"q": {1, 0, 0}},
		reply:      "answer",
	}
	rag := NewRAGService(ai, store, types.RetrievalConfig{TopK: 3, MaxContextUnits: 250})

	answer, err := rag.Answer(context.Background(), "q")
	require.NoError(t, err)

	// 250 units fit two whole 100-unit chunks; the third goes in whole or
	// not at all.
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, strings.Repeat("a", 100), answer.Sources[0].Content)
	assert.Equal(t, strings.Repeat("b", 100), answer.Sources[1].Content)
	assert.NotContains(t, ai.prompts[0], "ccc")
}

func TestAnswerEmptyIndexStillAnswers(t *testing.T) {
	store := database.NewMemoryStore()
	ai := &fakeAI{
		embeddings: map[string][]float32{"anything": {1, 0, 0}},
		reply:      "From general knowledge only.",
	}
	rag := NewRAGService(ai, store, types.RetrievalConfig{TopK: 5, MaxContextUnits: 8000})

	answer, err := rag.Answer(context.Background(), "anything")
	require.NoError(t, err)

	assert.Equal(t, "From general knowledge only.", answer.Text)
	assert.Empty(t, answer.Sources)
	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "(no documents matched this question)")
}

func TestAnswerWithOptionsDefaultsFromConfig(t *testing.T) {
	store := database.NewMemoryStore()
	seedStore(t, store,
		[]string{"alpha", "beta"},
		[][]float32{{1, 0, 0}, {0.9, 0.1, 0}},
	)
	ai := &fakeAI{
		embeddings: map[string][]float32{"q": {1, 0, 0}},
		reply:      "ok",
	}
	rag := NewRAGService(ai, store, types.RetrievalConfig{TopK: 2, MaxContextUnits: 8000})

	// Zero values fall back to the configured defaults.
	answer, err := rag.AnswerWithOptions(context.Background(), "q", 0, 0)
	require.NoError(t, err)
	assert.Len(t, answer.Sources, 2)

	answer, err = rag.AnswerWithOptions(context.Background(), "q", 1, 0)
	require.NoError(t, err)
	assert.Len(t, answer.Sources, 1)
}

func TestAnswerSplitsThinking(t *testing.T) {
	store := database.NewMemoryStore()
	ai := &fakeAI{
		embeddings: map[string][]float32{"q": {1, 0, 0}},
		reply:      "<think>the manual mentions a bleed valve</think>\nOpen the bleed valve.",
	}
	rag := NewRAGService(ai, store, types.RetrievalConfig{TopK: 5, MaxContextUnits: 8000})

	answer, err := rag.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "the manual mentions a bleed valve", answer.Thinking)
	assert.Equal(t, "Open the bleed valve.", answer.Text)
}

func TestAnswerPropagatesModelErrors(t *testing.T) {
	store := database.NewMemoryStore()
	rag := NewRAGService(&fakeAI{embedErr: types.ErrModelUnavailable}, store, types.RetrievalConfig{TopK: 5, MaxContextUnits: 8000})

	_, err := rag.Answer(context.Background(), "q")
	assert.ErrorIs(t, err, types.ErrModelUnavailable)

	genErr := errors.New("generation failed")
	rag = NewRAGService(&fakeAI{genErr: genErr}, store, types.RetrievalConfig{TopK: 5, MaxContextUnits: 8000})
	_, err = rag.Answer(context.Background(), "q")
	assert.ErrorIs(t, err, genErr)
}

func TestSplitThinkingNoTag(t *testing.T) {
	thinking, text := splitThinking("  plain answer  ")
	assert.Empty(t, thinking)
	assert.Equal(t, "plain answer", text)
}
