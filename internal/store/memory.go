package store

import (
	"context"
	"sync"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// Memory keeps the document in process memory. Used by tests.
type Memory struct {
	mu    sync.Mutex
	doc   *models.ContentDocument
	saves int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns a copy of the stored document.
func (m *Memory) Load(_ context.Context) (*models.ContentDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, apperr.ErrNotFound
	}
	return m.doc.Clone(), nil
}

// Save stores a copy of doc.
func (m *Memory) Save(_ context.Context, doc *models.ContentDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc.Clone()
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
