package cms

import (
	"context"
	"fmt"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/store"
	"github.com/starford/folio/internal/uploads"
)

var errResumeNotFound = apperr.NotFound("Resume not found")

// UploadResume validates and stores a resume PDF, replacing any previous one.
func (s *Service) UploadResume(ctx context.Context, fileData string) (string, error) {
	data, err := uploads.DecodePDF(fileData, s.maxBytes)
	if err != nil {
		return "", err
	}
	err = s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		if old := doc.ResumeFile; old != nil && *old != uploads.ResumeFilename {
			if err := s.files.Remove(*old); err != nil {
				return err
			}
		}
		if err := s.files.Write(uploads.ResumeFilename, data); err != nil {
			return err
		}
		doc.ResumeFile = models.StringPtr(uploads.ResumeFilename)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("cms: upload resume: %w", err)
	}
	s.publish("resume.updated", map[string]any{"file": uploads.ResumeFilename})
	return uploads.ResumeFilename, nil
}

// UploadProjectFile validates and stores the PDF for a project,
// overwriting any previous attachment.
func (s *Service) UploadProjectFile(ctx context.Context, id int, fileData string) (string, error) {
	data, err := uploads.DecodePDF(fileData, s.maxBytes)
	if err != nil {
		return "", err
	}
	name := uploads.ProjectFilename(id)
	err = s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		i := doc.ProjectIndex(id)
		if i < 0 {
			return errProjectNotFound
		}
		if old := doc.Projects[i].File; old != nil && *old != name {
			if err := s.files.Remove(*old); err != nil {
				return err
			}
		}
		if err := s.files.Write(name, data); err != nil {
			return err
		}
		doc.Projects[i].File = models.StringPtr(name)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("cms: upload project %d file: %w", id, err)
	}
	s.publish("project.file.updated", map[string]any{"id": id, "file": name})
	return name, nil
}

// DeleteResume removes the resume file and clears the reference.
// It succeeds when there is no resume.
func (s *Service) DeleteResume(ctx context.Context) error {
	removed := false
	err := s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		if doc.ResumeFile == nil {
			return store.ErrUnchanged
		}
		if err := s.files.Remove(*doc.ResumeFile); err != nil {
			return err
		}
		doc.ResumeFile = nil
		removed = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("cms: delete resume: %w", err)
	}
	if removed {
		s.publish("resume.deleted", nil)
	}
	return nil
}

// DeleteProjectFile removes a project's attachment and clears the reference.
func (s *Service) DeleteProjectFile(ctx context.Context, id int) error {
	removed := false
	err := s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		i := doc.ProjectIndex(id)
		if i < 0 {
			return errProjectNotFound
		}
		f := doc.Projects[i].File
		if f == nil {
			return store.ErrUnchanged
		}
		if err := s.files.Remove(*f); err != nil {
			return err
		}
		doc.Projects[i].File = nil
		removed = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("cms: delete project %d file: %w", id, err)
	}
	if removed {
		s.publish("project.file.deleted", map[string]any{"id": id})
	}
	return nil
}

// ResumePath returns the on-disk path of the current resume.
func (s *Service) ResumePath(ctx context.Context) (string, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("cms: resume path: %w", err)
	}
	if doc.ResumeFile == nil || !s.files.Exists(*doc.ResumeFile) {
		return "", errResumeNotFound
	}
	return s.files.Path(*doc.ResumeFile)
}
