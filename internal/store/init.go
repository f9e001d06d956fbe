package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// Init prepares backend for use. A missing document is created with
// defaults; a document without a password hash is repaired in place.
// seedHash is only called when a hash has to be written.
func Init(ctx context.Context, backend Store, seedHash func() (string, error), logger *slog.Logger) error {
	doc, err := backend.Load(ctx)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		hash, err := seedHash()
		if err != nil {
			return fmt.Errorf("store: init: hash password: %w", err)
		}
		if err := backend.Save(ctx, models.DefaultDocument(hash)); err != nil {
			return fmt.Errorf("store: init: %w", err)
		}
		logger.Info("store: created default document")
		return nil
	case err != nil:
		return fmt.Errorf("store: init: %w", err)
	}

	changed := doc.Normalize()
	if doc.AdminPasswordHash == "" {
		hash, err := seedHash()
		if err != nil {
			return fmt.Errorf("store: init: hash password: %w", err)
		}
		doc.AdminPasswordHash = hash
		changed = true
		logger.Warn("store: document had no admin password hash, wrote a fresh one")
	}
	if !changed {
		return nil
	}
	if err := backend.Save(ctx, doc); err != nil {
		return fmt.Errorf("store: init: repair: %w", err)
	}
	return nil
}
