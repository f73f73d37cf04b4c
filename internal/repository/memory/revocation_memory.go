package memory

import (
	"context"
	"sync"
	"time"

	"filevault/internal/repository"
)

// Revocations is a process-local revocation set. Entries live until their
// token expires and Purge is called; a restart forgets every entry.
type Revocations struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewRevocations returns an empty in-memory revocation set.
func NewRevocations() *Revocations {
	return &Revocations{entries: make(map[string]time.Time)}
}

var _ repository.RevocationRepository = (*Revocations)(nil)

func (r *Revocations) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[token]; !ok {
		r.entries[token] = expiresAt
	}
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[token]
	return ok, nil
}

func (r *Revocations) Purge(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for token, exp := range r.entries {
		if !exp.After(now) {
			delete(r.entries, token)
			n++
		}
	}
	return n, nil
}

// Len returns the number of tracked tokens.
func (r *Revocations) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
