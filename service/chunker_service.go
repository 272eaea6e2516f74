package service

import (
	"fmt"

	"github.com/tieubaoca/docqa-be/types"
)

// ChunkerService splits normalized text into overlapping fixed-size windows.
// The unit is runes throughout the pipeline. Boundaries are a pure function
// of the input text and the two parameters, cache correctness depends on
// that.
type ChunkerService struct {
	targetSize int
	overlap    int
}

func NewChunkerService(config types.ChunkingConfig) (*ChunkerService, error) {
	if config.TargetSize <= 0 {
		return nil, fmt.Errorf("target size must be positive, got %d", config.TargetSize)
	}
	if config.Overlap <= 0 || config.Overlap >= config.TargetSize {
		return nil, fmt.Errorf("overlap must be in (0, target size), got %d", config.Overlap)
	}
	return &ChunkerService{
		targetSize: config.TargetSize,
		overlap:    config.Overlap,
	}, nil
}

// ChunkSegments windows each segment independently so a chunk never spans a
// page boundary. Chunk indexes increase monotonically across the whole
// document.
func (s *ChunkerService) ChunkSegments(segments []types.Segment) []types.DocumentChunk {
	var chunks []types.DocumentChunk
	index := 0
	for _, segment := range segments {
		for _, chunk := range s.chunkSegment(segment) {
			chunk.Index = index
			index++
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

func (s *ChunkerService) chunkSegment(segment types.Segment) []types.DocumentChunk {
	runes := []rune(segment.Text)
	if len(runes) == 0 {
		return nil
	}

	// A segment that fits in one window is returned whole, no padding.
	if len(runes) <= s.targetSize {
		return []types.DocumentChunk{
			{Page: segment.Page, Start: 0, Content: segment.Text},
		}
	}

	step := s.targetSize - s.overlap
	var chunks []types.DocumentChunk
	for start := 0; start < len(runes); start += step {
		end := start + s.targetSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, types.DocumentChunk{
			Page:    segment.Page,
			Start:   start,
			Content: string(runes[start:end]),
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
