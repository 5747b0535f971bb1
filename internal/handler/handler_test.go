package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/swiftly-ai/assistant-api/internal/handler"
	"github.com/swiftly-ai/assistant-api/internal/llm"
	"github.com/swiftly-ai/assistant-api/internal/model"
	"github.com/swiftly-ai/assistant-api/internal/rag"
	"github.com/swiftly-ai/assistant-api/internal/service"
	"github.com/swiftly-ai/assistant-api/internal/session"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
)

type stubClient struct {
	calls int
	reply string
	err   error
}

func (c *stubClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &llm.CompletionResponse{Content: c.reply, Model: "stub-model"}, nil
}

func (c *stubClient) Name() string { return "stub" }

func (c *stubClient) Models() []string { return []string{"stub-model"} }

type testServer struct {
	router   http.Handler
	client   *stubClient
	sessions *session.Store
}

func newTestServer(t *testing.T, client *stubClient) *testServer {
	t.Helper()

	log := logger.NewNop()
	var gwClient llm.Client
	if client != nil {
		gwClient = client
	}
	gateway := llm.NewGateway(gwClient, "stub-model", log)
	store := rag.NewStore("", log)
	retriever := rag.NewRetriever(store, rag.DefaultMaxContextLength)
	sessions := session.NewStore(log)

	assistantSvc := service.NewAssistantService(gateway, sessions, retriever, llm.GenerationConfig{}, log)
	intentSvc := service.NewIntentService(gateway, llm.GenerationConfig{}, log)

	healthHandler := handler.NewHealthHandler(gateway)
	assistantHandler := handler.NewAssistantHandler(assistantSvc, intentSvc, log)
	conversationHandler := handler.NewConversationHandler(sessions, log)
	knowledgeHandler := handler.NewKnowledgeHandler(store, log)

	r := chi.NewRouter()
	r.Get("/health", healthHandler.Health)
	r.Post("/ask", assistantHandler.Ask)
	r.Post("/ask-natural", assistantHandler.AskNatural)
	r.Post("/analyze-task-intent", assistantHandler.AnalyzeTaskIntent)
	r.Route("/conversation/{session_id}", func(r chi.Router) {
		r.Delete("/", conversationHandler.Clear)
		r.Get("/info", conversationHandler.Info)
	})
	r.Route("/rag", func(r chi.Router) {
		r.Get("/stats", knowledgeHandler.Stats)
		r.Get("/search", knowledgeHandler.Search)
	})

	return &testServer{router: r, client: client, sessions: sessions}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestHealthHealthy(t *testing.T) {
	ts := newTestServer(t, &stubClient{reply: "ok"})

	w := ts.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp model.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" || !resp.APIConnected {
		t.Fatalf("expected healthy status, got %+v", resp)
	}
	if resp.ModelName != "stub-model" {
		t.Fatalf("unexpected model name %q", resp.ModelName)
	}
}

func TestHealthDegradedWithoutCredential(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp model.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "degraded" || resp.APIConnected {
		t.Fatalf("expected degraded status, got %+v", resp)
	}
}

func TestAskEmptyContentNeverReachesGateway(t *testing.T) {
	client := &stubClient{reply: "ok"}
	ts := newTestServer(t, client)

	for _, content := range []string{"", "   ", "\n\t"} {
		w := ts.do(t, http.MethodPost, "/ask", model.AskRequest{Content: content})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("content %q: expected 400, got %d", content, w.Code)
		}
	}
	if client.calls != 0 {
		t.Fatalf("gateway called %d times for invalid input", client.calls)
	}
}

func TestAskConversationFlow(t *testing.T) {
	ts := newTestServer(t, &stubClient{reply: "assistant reply"})

	w := ts.do(t, http.MethodPost, "/ask", model.AskRequest{Content: "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var first model.AskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatal(err)
	}
	if first.SessionID == "" || first.Response != "assistant reply" {
		t.Fatalf("unexpected response %+v", first)
	}

	w = ts.do(t, http.MethodPost, "/ask", model.AskRequest{Content: "again", SessionID: first.SessionID})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	history := ts.sessions.History(first.SessionID, 0)
	if len(history) != 4 {
		t.Fatalf("expected history of 4 after two turns, got %d", len(history))
	}
	for i, msg := range history {
		want := model.RoleUser
		if i%2 == 1 {
			want = model.RoleAssistant
		}
		if msg.Role != want {
			t.Fatalf("message %d role %q, want %q", i, msg.Role, want)
		}
	}
}

func TestAskServiceUnavailable(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/ask", model.AskRequest{Content: "hello"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestAskUpstreamFailureStillSucceeds(t *testing.T) {
	ts := newTestServer(t, &stubClient{err: errors.New("provider exploded")})

	w := ts.do(t, http.MethodPost, "/ask", model.AskRequest{Content: "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected graceful degraded 200, got %d", w.Code)
	}

	var resp model.AskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Response != llm.ApologyMessage {
		t.Fatalf("expected apology text, got %q", resp.Response)
	}
}

func TestAnalyzeTaskIntentEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubClient{reply: `{"hasTaskIntent": true, "taskName": "buy milk", "needsClarity": false}`})

	w := ts.do(t, http.MethodPost, "/analyze-task-intent", model.TaskIntentRequest{Content: "remind me to buy milk"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp model.TaskIntentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.HasTaskIntent || resp.TaskName == nil || *resp.TaskName != "buy milk" {
		t.Fatalf("unexpected intent response %+v", resp)
	}
	if resp.ProcessingTime < 0 {
		t.Fatal("expected non-negative processing time")
	}
}

func TestAnalyzeTaskIntentEmptyContent(t *testing.T) {
	client := &stubClient{reply: "irrelevant"}
	ts := newTestServer(t, client)

	w := ts.do(t, http.MethodPost, "/analyze-task-intent", model.TaskIntentRequest{Content: "  "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if client.calls != 0 {
		t.Fatal("gateway must not be called for empty content")
	}
}

func TestClearConversation(t *testing.T) {
	ts := newTestServer(t, &stubClient{reply: "ok"})
	ts.sessions.Append("sess-1", model.RoleUser, "hello", time.Time{})

	w := ts.do(t, http.MethodDelete, "/conversation/sess-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = ts.do(t, http.MethodDelete, "/conversation/sess-1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d", w.Code)
	}
}

func TestConversationInfo(t *testing.T) {
	ts := newTestServer(t, &stubClient{reply: "ok"})
	ts.sessions.Append("sess-1", model.RoleUser, "hello", time.Time{})

	w := ts.do(t, http.MethodGet, "/conversation/sess-1/info", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var info model.SessionInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.SessionID != "sess-1" || info.MessageCount != 1 {
		t.Fatalf("unexpected session info %+v", info)
	}

	w = ts.do(t, http.MethodGet, "/conversation/unknown/info", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", w.Code)
	}
}

func TestRAGStats(t *testing.T) {
	ts := newTestServer(t, &stubClient{reply: "ok"})

	w := ts.do(t, http.MethodGet, "/rag/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp model.StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "active" || resp.RAGStats.TotalDocuments == 0 {
		t.Fatalf("unexpected stats response %+v", resp)
	}
}

func TestRAGSearch(t *testing.T) {
	ts := newTestServer(t, &stubClient{reply: "ok"})

	w := ts.do(t, http.MethodGet, "/rag/search?query=task+priorities&limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp model.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Query != "task priorities" {
		t.Fatalf("expected echoed query, got %q", resp.Query)
	}
	if len(resp.Results) > 2 || resp.TotalResults != len(resp.Results) {
		t.Fatalf("unexpected search payload %+v", resp)
	}
}

func TestRAGSearchEmptyQuery(t *testing.T) {
	ts := newTestServer(t, &stubClient{reply: "ok"})

	w := ts.do(t, http.MethodGet, "/rag/search?query=", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
