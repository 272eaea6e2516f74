package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docqa-be/service"
	"github.com/tieubaoca/docqa-be/types"
)

type AskHandler struct {
	ragService *service.RAGService
}

func NewAskHandler(ragService *service.RAGService) *AskHandler {
	return &AskHandler{
		ragService: ragService,
	}
}

func (h *AskHandler) HandleAsk(c *gin.Context) {
	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Question must not be empty",
		})
		return
	}

	answer, err := h.ragService.AnswerWithOptions(c.Request.Context(), req.Question, req.TopK, req.MaxContext)
	if err != nil {
		c.JSON(statusForError(err), types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   types.AskResponse{Answer: answer},
	})
}
