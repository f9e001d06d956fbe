package cms

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/store"
)

// Reconcile clears file references whose file no longer exists in the
// upload directory. Files that nothing references are logged, not removed.
// It returns the number of references cleared.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	cleared := 0
	referenced := map[string]bool{}

	err := s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		if f := doc.ResumeFile; f != nil {
			if s.files.Exists(*f) {
				referenced[*f] = true
			} else {
				s.logger.Warn("reconcile: resume file missing, clearing reference", slog.String("file", *f))
				doc.ResumeFile = nil
				cleared++
			}
		}
		for i := range doc.Projects {
			f := doc.Projects[i].File
			if f == nil {
				continue
			}
			if s.files.Exists(*f) {
				referenced[*f] = true
				continue
			}
			s.logger.Warn("reconcile: project file missing, clearing reference",
				slog.Int("project_id", doc.Projects[i].ID),
				slog.String("file", *f))
			doc.Projects[i].File = nil
			cleared++
		}
		if cleared == 0 {
			return store.ErrUnchanged
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cms: reconcile: %w", err)
	}

	if names, err := s.files.List(); err == nil {
		for _, name := range names {
			if !referenced[name] {
				s.logger.Info("reconcile: unreferenced upload", slog.String("file", name))
			}
		}
	}

	if cleared > 0 {
		s.publish("content.reconciled", map[string]any{"cleared": cleared})
	}
	return cleared, nil
}
