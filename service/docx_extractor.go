package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/tieubaoca/docqa-be/types"
)

// extractDocx pulls paragraph and table text out of word/document.xml in
// document order. DOCX has no page mapping, the whole document is one
// segment with Page 0. Table rows come out cell-by-cell joined with " | ".
func extractDocx(data []byte) (*types.ExtractResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}

	docXML, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("failed to read document.xml: %w", err)
	}

	blocks, err := parseDocxBlocks(docXML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document.xml: %w", err)
	}

	return &types.ExtractResult{
		Segments: []types.Segment{
			{Page: 0, Text: strings.Join(blocks, "\n\n")},
		},
	}, nil
}

// parseDocxBlocks walks the WordprocessingML token stream. Plain paragraphs
// become one block each; table rows become one block of " | " joined cells.
func parseDocxBlocks(data []byte) ([]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var blocks []string
	var tableDepth int
	var inText bool
	var paragraph strings.Builder
	var cell strings.Builder
	var row []string

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth > 0 {
					row = row[:0]
				}
			case "tc":
				if tableDepth > 0 {
					cell.Reset()
				}
			case "t":
				inText = true
			case "tab":
				currentBuilder(tableDepth, &paragraph, &cell).WriteString("\t")
			case "br":
				currentBuilder(tableDepth, &paragraph, &cell).WriteString("\n")
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if tableDepth > 0 {
					cell.WriteString("\n")
				} else {
					text := strings.TrimSpace(paragraph.String())
					if text != "" {
						blocks = append(blocks, text)
					}
					paragraph.Reset()
				}
			case "tc":
				if tableDepth > 0 {
					if text := strings.TrimSpace(cell.String()); text != "" {
						row = append(row, text)
					}
				}
			case "tr":
				if tableDepth > 0 && len(row) > 0 {
					blocks = append(blocks, strings.Join(row, " | "))
					row = row[:0]
				}
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
				}
			}

		case xml.CharData:
			if inText {
				currentBuilder(tableDepth, &paragraph, &cell).Write(t)
			}
		}
	}

	return blocks, nil
}

func currentBuilder(tableDepth int, paragraph, cell *strings.Builder) *strings.Builder {
	if tableDepth > 0 {
		return cell
	}
	return paragraph
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, file := range zr.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}
