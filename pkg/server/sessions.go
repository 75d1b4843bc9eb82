package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mholzen/treegrid/pkg/rowmodel"
	"github.com/mholzen/treegrid/pkg/source"
)

type session struct {
	provider *rowmodel.Provider
	source   rowmodel.Source
}

// Sessions holds one row provider per grid session.
type Sessions struct {
	newSource func() (rowmodel.Source, error)

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessions(newSource func() (rowmodel.Source, error)) *Sessions {
	return &Sessions{newSource: newSource, sessions: make(map[string]*session)}
}

func (s *Sessions) Create() (string, error) {
	src, err := s.newSource()
	if err != nil {
		return "", fmt.Errorf("cannot open source: %w", err)
	}
	id := uuid.New().String()

	s.mu.Lock()
	s.sessions[id] = &session{provider: rowmodel.NewProvider(src, rowmodel.WithName(id)), source: src}
	s.mu.Unlock()

	slog.Debug("session created", "session_id", id)
	return id, nil
}

func (s *Sessions) Provider(id string) (*rowmodel.Provider, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return sess.provider, true
}

func (s *Sessions) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	if err := source.Close(ctx, sess.source); err != nil {
		slog.Warn("cannot close session source", "session_id", id, "error", err)
	}
	slog.Debug("session deleted", "session_id", id)
	return true
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) CloseAll(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Delete(ctx, id)
	}
}
