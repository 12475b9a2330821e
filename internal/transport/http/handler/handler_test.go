package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jce-assistant/internal/app"
	"jce-assistant/internal/extract"
	"jce-assistant/internal/knowledge"
	"jce-assistant/internal/model"
	"jce-assistant/internal/transport/http/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAssistant struct {
	userID string
	text   string
}

func (f *fakeAssistant) Respond(_ context.Context, userID, text string) app.Reply {
	f.userID, f.text = userID, text
	return app.Reply{Text: "respuesta", Source: app.SourceKeyword}
}

type fakeTranscripts struct {
	err error
}

func (f fakeTranscripts) ListByUser(_ context.Context, userID string, limit int) ([]model.Exchange, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.Exchange{{ExchangeID: "ex-1", UserID: userID, Source: "generic"}}, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, engine *gin.Engine, method, target, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func chatEngine(assistant Assistant, transcripts TranscriptLister) *gin.Engine {
	engine := gin.New()
	h := NewChatHandler(assistant, transcripts)
	engine.POST("/messages", h.SendMessage)
	engine.GET("/transcripts", h.ListTranscripts)
	return engine
}

func TestChatHandler_SendMessage(t *testing.T) {
	assistant := &fakeAssistant{}
	code, env := do(t, chatEngine(assistant, nil), http.MethodPost, "/messages", `{"user_id":"42","text":"  hola  "}`)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, response.CodeOK, env.Code)
	assert.JSONEq(t, `{"reply":"respuesta","source":"keyword"}`, string(env.Data))
	assert.Equal(t, "42", assistant.userID)
	assert.Equal(t, "hola", assistant.text)
}

func TestChatHandler_SendMessageRejectsBadInput(t *testing.T) {
	engine := chatEngine(&fakeAssistant{}, nil)

	code, env := do(t, engine, http.MethodPost, "/messages", `{"user_id":"42"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, response.CodeBadRequest, env.Code)

	code, env = do(t, engine, http.MethodPost, "/messages", `{"user_id":"42","text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, response.CodeEmptyMessage, env.Code)
}

func TestChatHandler_ListTranscripts(t *testing.T) {
	code, env := do(t, chatEngine(nil, fakeTranscripts{}), http.MethodGet, "/transcripts?user_id=7", "")
	require.Equal(t, http.StatusOK, code)

	var got []model.Exchange
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "7", got[0].UserID)

	code, _ = do(t, chatEngine(nil, fakeTranscripts{}), http.MethodGet, "/transcripts", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, chatEngine(nil, fakeTranscripts{err: errors.New("db")}), http.MethodGet, "/transcripts?user_id=7", "")
	assert.Equal(t, http.StatusInternalServerError, code)
}

func knowledgeEngine(t *testing.T) *gin.Engine {
	t.Helper()
	store := knowledge.NewStore(filepath.Join(t.TempDir(), "kb.json"))
	for title, text := range map[string]string{
		"resolucion_1": "Resolución No. 1. acta acta acta.",
		"resolucion_2": "Resolución No. 2. acta.",
	} {
		require.NoError(t, store.Put(model.CategoryResolution, title, model.Entry{
			RawDocument: model.RawDocument{Text: text},
			Record:      extract.Extract(title, text),
		}))
	}

	engine := gin.New()
	h := NewKnowledgeHandler(store)
	engine.GET("/search", h.Search)
	engine.GET("/summary", h.Summary)
	engine.GET("/healthz", NewHealthHandler("jce-assistant", "test", time.Now(), store, map[string]HealthCheck{
		"redis": func(context.Context) error { return nil },
	}).WithQuota(func() int { return 7 }).Check)
	return engine
}

func TestKnowledgeHandler_Search(t *testing.T) {
	engine := knowledgeEngine(t)

	code, env := do(t, engine, http.MethodGet, "/search?q=acta", "")
	require.Equal(t, http.StatusOK, code)
	var matches []knowledge.Match
	require.NoError(t, json.Unmarshal(env.Data, &matches))
	require.Len(t, matches, 2)
	assert.Equal(t, "resolucion_1", matches[0].Title)

	code, env = do(t, engine, http.MethodGet, "/search?q=inexistente", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))

	code, env = do(t, engine, http.MethodGet, "/search?q=%20", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, response.CodeEmptyQuery, env.Code)
}

func TestKnowledgeHandler_Summary(t *testing.T) {
	code, env := do(t, knowledgeEngine(t), http.MethodGet, "/summary", "")
	require.Equal(t, http.StatusOK, code)

	var payload struct {
		Text   string         `json:"text"`
		Counts map[string]int `json:"counts"`
		Total  int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, 2, payload.Total)
	assert.Equal(t, 2, payload.Counts["resoluciones"])
	assert.Contains(t, payload.Text, "resolucion_1")
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	knowledgeEngine(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Documents      int  `json:"documents"`
		QuotaRemaining *int `json:"quota_remaining"`
		Dependencies   map[string]struct {
			OK bool `json:"ok"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Documents)
	require.NotNil(t, body.QuotaRemaining)
	assert.Equal(t, 7, *body.QuotaRemaining)
	assert.True(t, body.Dependencies["redis"].OK)

	engine := gin.New()
	store := knowledge.NewStore(filepath.Join(t.TempDir(), "kb.json"))
	engine.GET("/healthz", NewHealthHandler("a", "b", time.Now(), store, map[string]HealthCheck{
		"database": func(context.Context) error { return errors.New("down") },
	}).Check)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
