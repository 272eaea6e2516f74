package types

import "time"

// DocumentFormat is the declared format of an uploaded document.
type DocumentFormat string

const (
	FormatDocx    DocumentFormat = "docx"
	FormatPDF     DocumentFormat = "pdf"
	FormatOneNote DocumentFormat = "one"
)

// Segment is a contiguous run of extracted text. Page is 1-based for
// page-numbered formats and 0 when the format has no page mapping.
type Segment struct {
	Page int    `json:"page" bson:"page"`
	Text string `json:"text" bson:"text"`
}

// PageFailure records a page whose text extraction failed. The document as a
// whole still processes, the failure is local to the page.
type PageFailure struct {
	Page   int    `json:"page" bson:"page"`
	Reason string `json:"reason" bson:"reason"`
}

// ExtractResult is the normalized output of the content extractor.
type ExtractResult struct {
	Segments    []Segment     `json:"segments" bson:"segments"`
	TotalPages  int           `json:"total_pages" bson:"total_pages"`
	FailedPages []PageFailure `json:"failed_pages,omitempty" bson:"failed_pages,omitempty"`
}

// DocumentChunk is one overlapping window of normalized document text, the
// unit of embedding and retrieval.
type DocumentChunk struct {
	Index     int       `json:"index" bson:"index"`           // monotonically increasing across the document
	Page      int       `json:"page" bson:"page"`             // 0 when unknown
	Start     int       `json:"start" bson:"start"`           // rune offset within the originating segment
	Content   string    `json:"content" bson:"content"`
	Embedding []float32 `json:"-" bson:"embedding,omitempty"`
}

// CacheEntry maps a document fingerprint to its fully processed chunk set.
// Entries are immutable, changed content produces a new fingerprint.
type CacheEntry struct {
	Fingerprint string          `json:"fingerprint" bson:"_id"`
	Filename    string          `json:"filename" bson:"filename"`
	Format      DocumentFormat  `json:"format" bson:"format"`
	ByteSize    int             `json:"byte_size" bson:"byte_size"`
	ChunkCount  int             `json:"chunk_count" bson:"chunk_count"`
	WordCount   int             `json:"word_count" bson:"word_count"`
	TotalPages  int             `json:"total_pages" bson:"total_pages"`
	FailedPages []PageFailure   `json:"failed_pages,omitempty" bson:"failed_pages,omitempty"`
	Chunks      []DocumentChunk `json:"chunks" bson:"chunks"`
	ProcessedAt int64           `json:"processed_at" bson:"processed_at"`
	DurationMs  int64           `json:"duration_ms" bson:"duration_ms"`
}

// ProcessingStats is what ProcessDocument reports back to callers.
type ProcessingStats struct {
	Fingerprint string         `json:"fingerprint"`
	Filename    string         `json:"filename"`
	Format      DocumentFormat `json:"format"`
	ChunkCount  int            `json:"chunk_count"`
	WordCount   int            `json:"word_count"`
	TotalPages  int            `json:"total_pages"`
	FailedPages []PageFailure  `json:"failed_pages,omitempty"`
	Cached      bool           `json:"cached"`
	Duration    time.Duration  `json:"duration_ms"`
}

// ScoredChunk is a retrieved chunk paired with its similarity to the query.
type ScoredChunk struct {
	ID          string  `json:"id"`
	Fingerprint string  `json:"fingerprint"`
	Filename    string  `json:"filename"`
	Index       int     `json:"index"`
	Page        int     `json:"page"`
	Content     string  `json:"content"`
	Score       float32 `json:"score"`
}

// Answer is the result of one question, the sources are the chunks that were
// actually included in the generation context, highest similarity first.
type Answer struct {
	Text     string        `json:"text"`
	Thinking string        `json:"thinking,omitempty"`
	Sources  []ScoredChunk `json:"sources"`
}

// CorpusStats summarizes everything currently indexed.
type CorpusStats struct {
	TotalDocuments int `json:"total_documents"`
	TotalChunks    int `json:"total_chunks"`
}
