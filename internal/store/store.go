// Package store persists the singleton content document.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/starford/folio/internal/models"
)

// ErrUnchanged may be returned from a Mutate callback to skip the save.
var ErrUnchanged = errors.New("store: unchanged")

// Store is the persistence contract for the content document.
type Store interface {
	// Load returns the stored document. It fails with apperr.ErrNotFound when
	// nothing has been stored yet and apperr.ErrCorrupt when the stored bytes
	// cannot be decoded.
	Load(ctx context.Context) (*models.ContentDocument, error)
	// Save replaces the stored document.
	Save(ctx context.Context, doc *models.ContentDocument) error
}

// Stamped is implemented by backends that can report when the document was
// last saved. It fails with apperr.ErrNotFound before the first save.
type Stamped interface {
	UpdatedAt(ctx context.Context) (time.Time, error)
}
