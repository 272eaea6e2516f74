package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tieubaoca/docqa-be/types"
)

// FormatFromFilename maps a file extension onto the closed set of supported
// document formats.
func FormatFromFilename(filename string) (types.DocumentFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return types.FormatDocx, nil
	case ".pdf":
		return types.FormatPDF, nil
	case ".one":
		return types.FormatOneNote, nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, ext)
	}
}

// GetFileNameWithoutExt extracts the base filename without its extension.
func GetFileNameWithoutExt(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx != -1 {
		base = base[:idx]
	}
	return base
}

// SaveUpload writes the uploaded bytes into the upload directory with a
// timestamp suffix so repeated uploads of the same name never collide.
func SaveUpload(data []byte, originalName, uploadDir string) (string, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %v", err)
	}

	ext := filepath.Ext(originalName)
	baseFileName := strings.TrimSuffix(filepath.Base(originalName), ext)
	timestamp := time.Now().Unix()
	destFileName := fmt.Sprintf("%s_%d%s", sanitizeFilename(baseFileName), timestamp, ext)
	destPath := filepath.Join(uploadDir, destFileName)

	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}
	return destPath, nil
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}
