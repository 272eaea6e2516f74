package service

import (
	"fmt"

	"github.com/tieubaoca/docqa-be/types"
)

// Extractor converts raw document bytes into normalized text segments.
type Extractor interface {
	Extract(data []byte, format types.DocumentFormat) (*types.ExtractResult, error)
}

// DocumentExtractor handles the closed set of supported formats. Unknown
// formats are rejected explicitly so downstream components never see a
// fabricated document.
type DocumentExtractor struct{}

func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

func (e *DocumentExtractor) Extract(data []byte, format types.DocumentFormat) (*types.ExtractResult, error) {
	switch format {
	case types.FormatDocx:
		return extractDocx(data)
	case types.FormatPDF:
		return extractPDF(data)
	case types.FormatOneNote:
		// Local .one files have no parser. Fail loudly instead of returning
		// empty text, the caller should export to docx or pdf first.
		return nil, fmt.Errorf("%w: .one files cannot be parsed, export the notebook to docx or pdf", types.ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, format)
	}
}
