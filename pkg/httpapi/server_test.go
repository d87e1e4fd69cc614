package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversa-labs/user-agent/pkg/agent"
	"github.com/conversa-labs/user-agent/pkg/grammar"
	"github.com/conversa-labs/user-agent/pkg/session"
	"github.com/conversa-labs/user-agent/pkg/store"
	"github.com/conversa-labs/user-agent/pkg/tools"
)

func newTestHandler(t *testing.T) (http.Handler, store.UserStore) {
	t.Helper()
	users := store.NewInMemoryStore()
	a, err := agent.New(agent.Options{
		Tools:  tools.All(users),
		Parser: grammar.New(),
	})
	require.NoError(t, err)
	return NewHandler(a, session.NewMemoryStore(), nil), users
}

func postChat(t *testing.T, h http.Handler, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatStructuredCommand(t *testing.T) {
	h, users := newTestHandler(t)

	rec := postChat(t, h, map[string]any{
		"session_id": "s1",
		"tool":       "createUser",
		"args":       map[string]any{"name": "Alice", "email": "alice@example.com", "password": "Secret1!"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.SessionID)
	assert.Contains(t, resp.Reply, "alice@example.com")
	assert.NotContains(t, resp.Reply, "Secret1!")
	require.Len(t, resp.Transcript, 2)
	assert.Equal(t, session.SpeakerUser, resp.Transcript[0].Speaker)
	assert.Equal(t, session.SpeakerAgent, resp.Transcript[1].Speaker)

	total, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestChatFreeTextThroughGrammar(t *testing.T) {
	h, users := newTestHandler(t)

	rec := postChat(t, h, map[string]any{
		"session_id": "s1",
		"text":       "create user named Bob with email bob@example.com and password Hunter2!",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Reply, "bob@example.com")

	u, err := users.Find(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)
}

func TestChatGeneratesSessionID(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postChat(t, h, map[string]any{"tool": "listUsers"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postChat(t, h, map[string]any{"session_id": "s1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRejectsMalformedBody(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscriptGetAndClear(t *testing.T) {
	h, _ := newTestHandler(t)

	postChat(t, h, map[string]any{"session_id": "s1", "tool": "listUsers"})

	req := httptest.NewRequest(http.MethodGet, "/transcript/s1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var transcript session.Transcript
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transcript))
	assert.Equal(t, "s1", transcript.SessionID)
	assert.Len(t, transcript.Turns, 2)

	req = httptest.NewRequest(http.MethodDelete, "/transcript/s1", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/transcript/s1", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transcript))
	assert.Empty(t, transcript.Turns)
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
