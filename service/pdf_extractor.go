package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/tieubaoca/docqa-be/types"
)

// extractPDF produces one segment per page with a 1-based page number. A
// page that cannot be extracted (scanned pages without a text layer, broken
// font tables) yields an empty segment plus a PageFailure record instead of
// aborting the document.
func extractPDF(data []byte) (*types.ExtractResult, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	result := &types.ExtractResult{
		TotalPages: reader.NumPage(),
	}

	for pageNum := 1; pageNum <= result.TotalPages; pageNum++ {
		text, err := extractPDFPage(reader, pageNum)
		if err != nil {
			result.Segments = append(result.Segments, types.Segment{Page: pageNum, Text: ""})
			result.FailedPages = append(result.FailedPages, types.PageFailure{
				Page:   pageNum,
				Reason: err.Error(),
			})
			continue
		}
		result.Segments = append(result.Segments, types.Segment{
			Page: pageNum,
			Text: cleanText(text),
		})
	}

	return result, nil
}

func extractPDFPage(reader *pdf.Reader, pageNum int) (text string, err error) {
	// The pdf library panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is missing", pageNum)
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", pageNum, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("page %d has no extractable text", pageNum)
	}
	return text, nil
}

func cleanText(text string) string {
	replacements := map[string]string{
		"\u0000": "",   // Null character
		"\ufffd": "",   // Unicode replacement character
		"\u001b": "",   // Escape character
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	for strings.Contains(cleaned, "  ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}
	return strings.TrimSpace(cleaned)
}
