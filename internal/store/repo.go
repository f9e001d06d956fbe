package store

import (
	"context"
	"errors"
	"sync"

	"github.com/starford/folio/internal/models"
)

// Repo serializes writers to a Store. Every mutation is a full
// load, modify and save under one lock.
type Repo struct {
	mu      sync.RWMutex
	backend Store
}

// NewRepo wraps backend.
func NewRepo(backend Store) *Repo {
	return &Repo{backend: backend}
}

// Get loads the current document.
func (r *Repo) Get(ctx context.Context) (*models.ContentDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.backend.Load(ctx)
}

// Mutate applies fn to the current document and saves the result.
// If fn returns an error nothing is saved; ErrUnchanged is swallowed.
func (r *Repo) Mutate(ctx context.Context, fn func(doc *models.ContentDocument) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.backend.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return nil
		}
		return err
	}
	return r.backend.Save(ctx, doc)
}
