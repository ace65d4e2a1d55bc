package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jhjeon/askresume/internal/pkg/response"
	"github.com/jhjeon/askresume/internal/service"
)

type AskHandler struct {
	answers *service.AnswerService
}

func NewAskHandler(answers *service.AnswerService) *AskHandler {
	return &AskHandler{answers: answers}
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

func (h *AskHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, "question(prompt) is missing")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		response.Error(c, 400, "question(prompt) is missing")
		return
	}
	answer, err := h.answers.Answer(c.Request.Context(), req.Prompt)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Answer(c, answer)
}
