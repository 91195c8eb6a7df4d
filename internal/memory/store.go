// Package memory implements the choice memory consulted before prompting
// and updated after every confirmation. The store is keyed by NameKey so a
// decision made for one file of a pack carries over to its siblings.
package memory

import (
	"context"
	"sync"

	"github.com/legendastv/ltv/internal/model"
)

// Store is the choice-memory contract. Lookup returns nil without error
// when a key was never recorded. Remember overwrites any prior entry for
// the same key; distinct titles normalizing to the same key overwrite each
// other, an accepted tradeoff.
type Store interface {
	Lookup(ctx context.Context, key model.NameKey) (*model.Choice, error)
	Remember(ctx context.Context, choice model.Choice) error
	Forget(ctx context.Context, key model.NameKey) error
	Clear(ctx context.Context) error
}

// SessionStore is the default map-backed store, scoped to one batch run.
type SessionStore struct {
	choices map[model.NameKey]model.Choice
	mu      sync.RWMutex
}

// NewSessionStore creates an empty session-scoped store.
func NewSessionStore() *SessionStore {
	return &SessionStore{choices: make(map[model.NameKey]model.Choice)}
}

// Lookup returns the choice recorded for key this session, or nil.
func (s *SessionStore) Lookup(_ context.Context, key model.NameKey) (*model.Choice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	choice, ok := s.choices[key]
	if !ok {
		return nil, nil
	}
	return &choice, nil
}

// Remember records choice under its key, overwriting any prior entry.
func (s *SessionStore) Remember(_ context.Context, choice model.Choice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.choices[choice.Key] = choice
	return nil
}

// Forget evicts the entry for key, if any.
func (s *SessionStore) Forget(_ context.Context, key model.NameKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.choices, key)
	return nil
}

// Clear evicts every entry.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.choices = make(map[model.NameKey]model.Choice)
	return nil
}

// Len reports the number of recorded choices.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.choices)
}
