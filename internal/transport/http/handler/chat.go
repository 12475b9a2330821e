package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jce-assistant/internal/app"
	"jce-assistant/internal/model"
	"jce-assistant/internal/transport/http/response"
)

// Assistant answers one utterance.
type Assistant interface {
	Respond(ctx context.Context, userID, text string) app.Reply
}

// TranscriptLister reads stored exchanges.
type TranscriptLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]model.Exchange, error)
}

type ChatHandler struct {
	assistant   Assistant
	transcripts TranscriptLister
}

type SendMessageRequest struct {
	UserID string `json:"user_id" binding:"required,max=64"`
	Text   string `json:"text" binding:"required"`
}

func NewChatHandler(assistant Assistant, transcripts TranscriptLister) *ChatHandler {
	return &ChatHandler{assistant: assistant, transcripts: transcripts}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	text, err := app.ValidateMessage(req.UserID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeEmptyMessage, err.Error())
		default:
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		}
		return
	}

	response.OK(c, h.assistant.Respond(c.Request.Context(), req.UserID, text))
}

func (h *ChatHandler) ListTranscripts(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "user_id is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	exchanges, err := h.transcripts.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list transcripts failed")
		return
	}
	response.OK(c, exchanges)
}
