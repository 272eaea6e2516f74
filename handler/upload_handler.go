package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docqa-be/service"
	"github.com/tieubaoca/docqa-be/types"
	"github.com/tieubaoca/docqa-be/utils"
)

const maxUploadSize = 50 << 20

type UploadHandler struct {
	documentService *service.DocumentService
	uploadDir       string
}

func NewUploadHandler(documentService *service.DocumentService, uploadDir string) *UploadHandler {
	return &UploadHandler{
		documentService: documentService,
		uploadDir:       uploadDir,
	}
}

func (h *UploadHandler) UploadDocumentHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid file",
		})
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "File too large",
		})
		return
	}

	format, err := utils.FormatFromFilename(header.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Failed to read file",
		})
		return
	}

	if h.uploadDir != "" {
		if _, err := utils.SaveUpload(data, header.Filename, h.uploadDir); err != nil {
			log.Printf("failed to keep upload copy of %s: %v", header.Filename, err)
		}
	}

	stats, err := h.documentService.ProcessDocument(c.Request.Context(), data, format, header.Filename)
	if err != nil {
		c.JSON(statusForError(err), types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   stats,
	})
}

// statusForError maps the pipeline error taxonomy onto HTTP statuses so a
// caller can tell an unusable document from an unreachable dependency.
func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, types.ErrStoreUnavailable), errors.Is(err, types.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
