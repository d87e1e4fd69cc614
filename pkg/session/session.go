// Package session persists conversation transcripts for the chat surface.
// A transcript is an append-only sequence of turns; the resolver never
// reads it, it only produces the text appended after each turn.
package session

import (
	"context"
	"time"
)

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerAgent Speaker = "agent"
)

// Turn is one entry in a transcript.
type Turn struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Transcript is the ordered conversation history for one session.
type Transcript struct {
	SessionID string `json:"session_id"`
	Turns     []Turn `json:"turns"`
}

// Store persists transcripts keyed by session id. Get on an unknown session
// returns an empty transcript, not an error.
type Store interface {
	Append(ctx context.Context, sessionID string, turns ...Turn) error
	Get(ctx context.Context, sessionID string) (Transcript, error)
	Clear(ctx context.Context, sessionID string) error
}
