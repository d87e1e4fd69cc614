// Package httpapi exposes the chat surface over HTTP: one endpoint that
// accepts a message, resolves it, and maintains the session transcript.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/conversa-labs/user-agent/pkg/agent"
	"github.com/conversa-labs/user-agent/pkg/session"
)

var (
	chatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "useragent_chat_requests_total",
		Help: "Chat requests handled, by outcome.",
	}, []string{"outcome"})
	resolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "useragent_resolve_duration_seconds",
		Help:    "Time spent resolving one message.",
		Buckets: prometheus.DefBuckets,
	})
)

// Server wires the resolver and the transcript store into HTTP handlers.
type Server struct {
	agent       *agent.Agent
	transcripts session.Store
	log         *zap.Logger
}

// NewHandler builds the chi router for the chat API.
func NewHandler(a *agent.Agent, transcripts session.Store, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{agent: a, transcripts: transcripts, log: log}

	r := chi.NewRouter()
	r.Post("/chat", s.handleChat)
	r.Get("/transcript/{sessionID}", s.handleGetTranscript)
	r.Delete("/transcript/{sessionID}", s.handleClearTranscript)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// chatRequest mirrors the inbound message shape: either a structured tool
// call or free text, plus an optional session id.
type chatRequest struct {
	SessionID string         `json:"session_id"`
	Tool      string         `json:"tool"`
	Args      map[string]any `json:"args"`
	Text      string         `json:"text"`
}

type chatResponse struct {
	SessionID  string         `json:"session_id"`
	Reply      string         `json:"reply"`
	Transcript []session.Turn `json:"transcript"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		chatRequests.WithLabelValues("bad_request").Inc()
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.log.Warn("chat: invalid request body", zap.Error(err))
		return
	}
	if strings.TrimSpace(body.Tool) == "" && strings.TrimSpace(body.Text) == "" {
		chatRequests.WithLabelValues("bad_request").Inc()
		http.Error(w, "Either tool or text is required", http.StatusBadRequest)
		return
	}

	sessionID := strings.TrimSpace(body.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var msg agent.Message
	var userTurn string
	if body.Tool != "" {
		msg = agent.NewCommandMessage(agent.Command{Tool: body.Tool, Args: body.Args})
		userTurn = body.Tool
	} else {
		msg = agent.NewTextMessage(body.Text)
		userTurn = body.Text
	}

	start := time.Now()
	result := s.agent.Resolve(r.Context(), msg)
	resolveDuration.Observe(time.Since(start).Seconds())

	reply := result.Render()
	now := time.Now().UTC()
	if err := s.transcripts.Append(r.Context(), sessionID,
		session.Turn{Speaker: session.SpeakerUser, Text: userTurn, At: now},
		session.Turn{Speaker: session.SpeakerAgent, Text: reply, At: now},
	); err != nil {
		chatRequests.WithLabelValues("error").Inc()
		http.Error(w, "Failed to store transcript", http.StatusInternalServerError)
		s.log.Error("chat: transcript append failed", zap.Error(err))
		return
	}

	transcript, err := s.transcripts.Get(r.Context(), sessionID)
	if err != nil {
		chatRequests.WithLabelValues("error").Inc()
		http.Error(w, "Failed to load transcript", http.StatusInternalServerError)
		s.log.Error("chat: transcript load failed", zap.Error(err))
		return
	}

	chatRequests.WithLabelValues("ok").Inc()
	s.log.Info("chat resolved",
		zap.String("session_id", sessionID),
		zap.Duration("took", time.Since(start)),
	)
	writeJSON(w, http.StatusOK, chatResponse{
		SessionID:  sessionID,
		Reply:      reply,
		Transcript: transcript.Turns,
	})
}

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	transcript, err := s.transcripts.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Failed to load transcript", http.StatusInternalServerError)
		s.log.Error("transcript load failed", zap.Error(err))
		return
	}
	writeJSON(w, http.StatusOK, transcript)
}

func (s *Server) handleClearTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.transcripts.Clear(r.Context(), sessionID); err != nil {
		http.Error(w, "Failed to clear transcript", http.StatusInternalServerError)
		s.log.Error("transcript clear failed", zap.Error(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
