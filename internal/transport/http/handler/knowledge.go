package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jce-assistant/internal/knowledge"
	"jce-assistant/internal/model"
	"jce-assistant/internal/transport/http/response"
)

type KnowledgeHandler struct {
	store *knowledge.Store
}

type summaryPayload struct {
	Text      string                 `json:"text"`
	Counts    map[model.Category]int `json:"counts"`
	Total     int                    `json:"total"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
}

func NewKnowledgeHandler(store *knowledge.Store) *KnowledgeHandler {
	return &KnowledgeHandler{store: store}
}

func (h *KnowledgeHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		response.Error(c, http.StatusBadRequest, response.CodeEmptyQuery, "query is empty")
		return
	}
	matches := h.store.Search(query)
	if matches == nil {
		matches = []knowledge.Match{}
	}
	response.OK(c, matches)
}

func (h *KnowledgeHandler) Summary(c *gin.Context) {
	payload := summaryPayload{
		Text:   knowledge.Summary(h.store.All()),
		Counts: h.store.Count(),
		Total:  h.store.Len(),
	}
	if updated := h.store.UpdatedAt(); !updated.IsZero() {
		payload.UpdatedAt = &updated
	}
	response.OK(c, payload)
}
