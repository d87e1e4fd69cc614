package session

import (
	"context"
	"sync"
)

// MemoryStore keeps transcripts in process memory. Suitable for tests and
// single-instance deployments.
type MemoryStore struct {
	mu          sync.RWMutex
	transcripts map[string][]Turn
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{transcripts: make(map[string][]Turn)}
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, turns ...Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[sessionID] = append(s.transcripts[sessionID], turns...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Transcript{
		SessionID: sessionID,
		Turns:     append([]Turn(nil), s.transcripts[sessionID]...),
	}, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transcripts, sessionID)
	return nil
}

var _ Store = (*MemoryStore)(nil)
