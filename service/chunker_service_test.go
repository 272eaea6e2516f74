package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/docqa-be/types"
)

func buildText(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteRune(rune('a' + (i*31+i/26)%26))
	}
	return sb.String()
}

func TestNewChunkerServiceValidation(t *testing.T) {
	_, err := NewChunkerService(types.ChunkingConfig{TargetSize: 0, Overlap: 0})
	assert.Error(t, err)

	_, err = NewChunkerService(types.ChunkingConfig{TargetSize: 100, Overlap: 0})
	assert.Error(t, err)

	_, err = NewChunkerService(types.ChunkingConfig{TargetSize: 100, Overlap: 100})
	assert.Error(t, err)

	_, err = NewChunkerService(types.ChunkingConfig{TargetSize: 100, Overlap: 99})
	assert.NoError(t, err)
}

func TestChunkSegmentsWindowOffsets(t *testing.T) {
	chunker, err := NewChunkerService(types.ChunkingConfig{TargetSize: 500, Overlap: 50})
	require.NoError(t, err)

	text := buildText(1200)
	chunks := chunker.ChunkSegments([]types.Segment{{Page: 1, Text: text}})

	require.Len(t, chunks, 3)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 450, chunks[1].Start)
	assert.Equal(t, 900, chunks[2].Start)

	assert.Len(t, []rune(chunks[0].Content), 500)
	assert.Len(t, []rune(chunks[1].Content), 500)
	assert.Len(t, []rune(chunks[2].Content), 300)

	// Every chunk is an exact window of the source text.
	runes := []rune(text)
	for _, chunk := range chunks {
		end := chunk.Start + len([]rune(chunk.Content))
		assert.Equal(t, string(runes[chunk.Start:end]), chunk.Content)
	}

	// Consecutive chunks share exactly the overlap.
	assert.Equal(t, chunks[0].Content[450:], chunks[1].Content[:50])
	assert.Equal(t, chunks[1].Content[450:], chunks[2].Content[:50])
}

func TestChunkSegmentsShortSegment(t *testing.T) {
	chunker, err := NewChunkerService(types.ChunkingConfig{TargetSize: 500, Overlap: 50})
	require.NoError(t, err)

	text := buildText(500)
	chunks := chunker.ChunkSegments([]types.Segment{{Page: 2, Text: text}})

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, text, chunks[0].Content)
	assert.Equal(t, 2, chunks[0].Page)
}

func TestChunkSegmentsEmptySegment(t *testing.T) {
	chunker, err := NewChunkerService(types.ChunkingConfig{TargetSize: 500, Overlap: 50})
	require.NoError(t, err)

	chunks := chunker.ChunkSegments([]types.Segment{{Page: 1, Text: ""}})
	assert.Empty(t, chunks)
}

func TestChunkSegmentsNeverSpanPages(t *testing.T) {
	chunker, err := NewChunkerService(types.ChunkingConfig{TargetSize: 100, Overlap: 10})
	require.NoError(t, err)

	segments := []types.Segment{
		{Page: 1, Text: buildText(250)},
		{Page: 2, Text: ""},
		{Page: 3, Text: buildText(80)},
	}
	chunks := chunker.ChunkSegments(segments)

	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index, "indexes are monotonic across the document")
		assert.Contains(t, []int{1, 3}, chunk.Page)
	}
	// The last chunk of page 1 ends exactly at the segment boundary.
	var lastPage1 types.DocumentChunk
	for _, chunk := range chunks {
		if chunk.Page == 1 {
			lastPage1 = chunk
		}
	}
	assert.Equal(t, 250, lastPage1.Start+len([]rune(lastPage1.Content)))
}

func TestChunkSegmentsDeterministic(t *testing.T) {
	chunker, err := NewChunkerService(types.ChunkingConfig{TargetSize: 300, Overlap: 40})
	require.NoError(t, err)

	segments := []types.Segment{
		{Page: 1, Text: buildText(999)},
		{Page: 2, Text: buildText(300)},
	}
	first := chunker.ChunkSegments(segments)
	second := chunker.ChunkSegments(segments)
	assert.Equal(t, first, second)
}

func TestChunkSegmentsMultiByteRunes(t *testing.T) {
	chunker, err := NewChunkerService(types.ChunkingConfig{TargetSize: 4, Overlap: 1})
	require.NoError(t, err)

	chunks := chunker.ChunkSegments([]types.Segment{{Page: 1, Text: "tàu ngầm chạy"}})

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk.Content)), 4)
	}
	// Rebuilding from the windows reproduces the original text.
	runes := []rune("tàu ngầm chạy")
	for _, chunk := range chunks {
		end := chunk.Start + len([]rune(chunk.Content))
		assert.Equal(t, string(runes[chunk.Start:end]), chunk.Content)
	}
}
