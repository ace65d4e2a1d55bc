package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jhjeon/askresume/internal/handler"
	"github.com/jhjeon/askresume/internal/middleware"
	"github.com/jhjeon/askresume/internal/model"
	appErr "github.com/jhjeon/askresume/internal/pkg/errors"
	"github.com/jhjeon/askresume/internal/rag"
	"github.com/jhjeon/askresume/internal/service"
)

type fixedGenerator struct {
	response string
}

func (f fixedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.response, nil
}

type fixedRetriever struct {
	passages []model.Passage
	err      error
}

func (f fixedRetriever) Retrieve(ctx context.Context, question string) ([]model.Passage, error) {
	return f.passages, f.err
}

type mapCache struct {
	store map[string]string
}

func (m *mapCache) Get(ctx context.Context, question string) (string, bool, error) {
	answer, ok := m.store[question]
	return answer, ok, nil
}

func (m *mapCache) Put(ctx context.Context, question string, answer string) error {
	m.store[question] = answer
	return nil
}

func setupRouter(t *testing.T, mutate func(opts *service.Options)) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prompts := rag.PromptsFor("ko", "전재현")
	opts := service.Options{
		Gate:      rag.NewRelevanceGate(fixedGenerator{response: "예"}, prompts),
		Retriever: fixedRetriever{passages: []model.Passage{{Text: "passage"}}},
		Generator: rag.NewAnswerGenerator(fixedGenerator{response: "답변입니다."}, prompts),
		Cache:     &mapCache{store: map[string]string{}},
		Prompts:   prompts,
	}
	if mutate != nil {
		mutate(&opts)
	}
	answers := service.NewAnswerService(opts)

	engine := gin.New()
	engine.Use(
		gin.CustomRecovery(func(c *gin.Context, _ interface{}) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}),
		middleware.CORS("https://resume.example.com"),
	)
	handler.RegisterRoutes(engine.Group("/api/v1"), handler.RouterDeps{
		Ask: handler.NewAskHandler(answers),
	})
	return engine
}

func doAsk(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAsk_RelevantQuestion(t *testing.T) {
	router := setupRouter(t, nil)
	rec := doAsk(t, router, `{"prompt": "경력이 어떻게 되나요?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "https://resume.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "답변입니다.", body["answer"])
}

func TestAsk_OffTopicQuestion(t *testing.T) {
	router := setupRouter(t, func(opts *service.Options) {
		opts.Gate = rag.NewRelevanceGate(fixedGenerator{response: "아니오"}, opts.Prompts)
	})
	rec := doAsk(t, router, `{"prompt": "저녁 메뉴 추천해줘"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "이력서와 관련된 질문을 해주시면 감사하겠습니다.", body["answer"])
}

func TestAsk_MissingPrompt(t *testing.T) {
	router := setupRouter(t, nil)
	for _, body := range []string{`{}`, `{"prompt": ""}`, `{"prompt": "   "}`, `not json`} {
		rec := doAsk(t, router, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp["error"])
		require.NotContains(t, resp, "answer")
	}
}

func TestAsk_IndexUnavailable(t *testing.T) {
	router := setupRouter(t, func(opts *service.Options) {
		opts.Retriever = fixedRetriever{err: appErr.ErrIndexUnavailable}
	})
	rec := doAsk(t, router, `{"prompt": "경력은?"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["error"])
	require.NotContains(t, body, "answer")
}

func TestAsk_InitializationFailure(t *testing.T) {
	router := setupRouter(t, func(opts *service.Options) {
		opts.Initialize = func(ctx context.Context) error {
			return errors.New("corpus missing")
		}
	})
	rec := doAsk(t, router, `{"prompt": "경력은?"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["error"])
	// Internals stay in the server log.
	require.NotContains(t, body["error"], "corpus missing")
}

func TestAsk_Preflight(t *testing.T) {
	router := setupRouter(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ask", nil)
	req.Header.Set("Origin", "https://resume.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
	require.Equal(t, "https://resume.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestAsk_CachedAnswerIsByteIdentical(t *testing.T) {
	router := setupRouter(t, nil)
	first := doAsk(t, router, `{"prompt": "기술 스택은?"}`)
	second := doAsk(t, router, `{"prompt": "기술 스택은?"}`)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, first.Body.String(), second.Body.String())
}
