package service

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/docqa-be/types"
)

// buildDocx assembles a minimal docx archive around the given document.xml
// body.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body>
</w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDocxParagraphsAndTables(t *testing.T) {
	docx := buildDocx(t, `
<w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
<w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
<w:tbl>
  <w:tr>
    <w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>Role</w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:p><w:r><w:t>An</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>Engineer</w:t></w:r></w:p></w:tc>
  </w:tr>
</w:tbl>
<w:p><w:r><w:t>After the table.</w:t></w:r></w:p>`)

	extractor := NewDocumentExtractor()
	result, err := extractor.Extract(docx, types.FormatDocx)
	require.NoError(t, err)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, 0, result.Segments[0].Page)
	assert.Empty(t, result.FailedPages)

	expected := "First paragraph.\n\n" +
		"Second paragraph.\n\n" +
		"Name | Role\n\n" +
		"An | Engineer\n\n" +
		"After the table."
	assert.Equal(t, expected, result.Segments[0].Text)
}

func TestExtractDocxSkipsEmptyParagraphs(t *testing.T) {
	docx := buildDocx(t, `
<w:p></w:p>
<w:p><w:r><w:t>Only content.</w:t></w:r></w:p>
<w:p><w:r><w:t>   </w:t></w:r></w:p>`)

	extractor := NewDocumentExtractor()
	result, err := extractor.Extract(docx, types.FormatDocx)
	require.NoError(t, err)
	assert.Equal(t, "Only content.", result.Segments[0].Text)
}

func TestExtractDocxTabAndBreak(t *testing.T) {
	docx := buildDocx(t, `<w:p><w:r><w:t>left</w:t><w:tab/><w:t>right</w:t><w:br/><w:t>next line</w:t></w:r></w:p>`)

	extractor := NewDocumentExtractor()
	result, err := extractor.Extract(docx, types.FormatDocx)
	require.NoError(t, err)
	assert.Equal(t, "left\tright\nnext line", result.Segments[0].Text)
}

func TestExtractDocxCorruptArchive(t *testing.T) {
	extractor := NewDocumentExtractor()
	_, err := extractor.Extract([]byte("not a zip archive"), types.FormatDocx)
	assert.Error(t, err)
}

func TestExtractDocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<doc/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	extractor := NewDocumentExtractor()
	_, err = extractor.Extract(buf.Bytes(), types.FormatDocx)
	assert.Error(t, err)
}

func TestExtractPDFCorruptBytes(t *testing.T) {
	extractor := NewDocumentExtractor()
	_, err := extractor.Extract([]byte("%PDF-1.7 truncated garbage"), types.FormatPDF)
	assert.Error(t, err)
}

func TestExtractOneNoteRejected(t *testing.T) {
	extractor := NewDocumentExtractor()
	_, err := extractor.Extract([]byte{0x01, 0x02}, types.FormatOneNote)
	assert.ErrorIs(t, err, types.ErrUnsupportedFormat)
}

func TestExtractUnknownFormatRejected(t *testing.T) {
	extractor := NewDocumentExtractor()
	_, err := extractor.Extract([]byte("plain text"), types.DocumentFormat("txt"))
	assert.ErrorIs(t, err, types.ErrUnsupportedFormat)
}
