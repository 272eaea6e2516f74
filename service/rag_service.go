package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/tieubaoca/docqa-be/database"
	"github.com/tieubaoca/docqa-be/types"
)

const answerPreamble = `You are a helpful assistant that answers questions based on the provided documents.
Use only the information from the provided documents to answer the question.
If the answer cannot be found in the documents, say so clearly.`

var thinkPattern = regexp.MustCompile(`(?s)<think>(.*?)</think>`)

// RAGService answers questions by embedding them, retrieving the most
// similar chunks and prompting the generation model with the assembled
// context.
type RAGService struct {
	ai       AIService
	vectorDB database.VectorDatabase
	config   types.RetrievalConfig
}

func NewRAGService(ai AIService, vectorDB database.VectorDatabase, config types.RetrievalConfig) *RAGService {
	return &RAGService{
		ai:       ai,
		vectorDB: vectorDB,
		config:   config,
	}
}

func (s *RAGService) Answer(ctx context.Context, question string) (*types.Answer, error) {
	return s.AnswerWithOptions(ctx, question, s.config.TopK, s.config.MaxContextUnits)
}

// AnswerWithOptions retrieves up to topK chunks and greedily packs whole
// chunks into the context in descending similarity order until the next one
// would exceed maxContextUnits runes. A chunk is never truncated, it goes in
// whole or not at all.
func (s *RAGService) AnswerWithOptions(ctx context.Context, question string, topK, maxContextUnits int) (*types.Answer, error) {
	if topK <= 0 {
		topK = s.config.TopK
	}
	if maxContextUnits <= 0 {
		maxContextUnits = s.config.MaxContextUnits
	}

	embeddings, err := s.ai.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("expected one question embedding, got %d", len(embeddings))
	}

	retrieved, err := s.vectorDB.Query(ctx, embeddings[0], topK)
	if err != nil {
		return nil, err
	}

	sources := assembleContext(retrieved, maxContextUnits)
	if len(sources) == 0 {
		// Still answer from the model's general knowledge, but say so in the
		// log so an empty index is observable rather than silent.
		log.Printf("no relevant chunks for question, answering without document context")
	}

	prompt := buildPrompt(question, sources)
	text, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	answer := &types.Answer{
		Sources: sources,
	}
	answer.Thinking, answer.Text = splitThinking(text)
	return answer, nil
}

func assembleContext(retrieved []types.ScoredChunk, maxContextUnits int) []types.ScoredChunk {
	var included []types.ScoredChunk
	used := 0
	for _, chunk := range retrieved {
		size := len([]rune(chunk.Content))
		if used+size > maxContextUnits {
			break
		}
		included = append(included, chunk)
		used += size
	}
	return included
}

func buildPrompt(question string, sources []types.ScoredChunk) string {
	var sb strings.Builder
	sb.WriteString(answerPreamble)
	sb.WriteString("\n\nContext from documents:\n")

	if len(sources) == 0 {
		sb.WriteString("(no documents matched this question)\n")
	}
	for i, chunk := range sources {
		sb.WriteString(fmt.Sprintf("Document %d (%s", i+1, chunk.Filename))
		if chunk.Page > 0 {
			sb.WriteString(fmt.Sprintf(", page %d", chunk.Page))
		}
		sb.WriteString("):\n")
		sb.WriteString(chunk.Content)
		sb.WriteString("\n\n")
	}

	sb.WriteString(fmt.Sprintf("Question: %s\n\nAnswer: ", question))
	return sb.String()
}

// splitThinking separates <think>...</think> reasoning blocks that models
// like qwen emit from the visible answer.
func splitThinking(text string) (thinking, answer string) {
	matches := thinkPattern.FindStringSubmatch(text)
	if len(matches) == 2 {
		thinking = strings.TrimSpace(matches[1])
	}
	answer = strings.TrimSpace(thinkPattern.ReplaceAllString(text, ""))
	return thinking, answer
}
