package cms

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/uploads"
)

var errProjectNotFound = apperr.NotFound("Project not found")

// Project returns the project with id.
func (s *Service) Project(ctx context.Context, id int) (*models.Project, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("cms: project: %w", err)
	}
	i := doc.ProjectIndex(id)
	if i < 0 {
		return nil, errProjectNotFound
	}
	p := doc.Projects[i]
	return &p, nil
}

// CreateProject appends a new project without an attachment.
func (s *Service) CreateProject(ctx context.Context, title, description string) (*models.Project, error) {
	in := newProjectInput(title, description)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created models.Project
	err := s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		created = models.Project{
			ID:          doc.AllocateProjectID(),
			Title:       in.Title,
			Description: in.Description,
		}
		doc.Projects = append(doc.Projects, created)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cms: create project: %w", err)
	}
	s.publish("project.created", map[string]any{"id": created.ID})
	return &created, nil
}

// UpdateProject replaces the title and description of a project.
func (s *Service) UpdateProject(ctx context.Context, id int, title, description string) (*models.Project, error) {
	in := newProjectInput(title, description)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated models.Project
	err := s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		i := doc.ProjectIndex(id)
		if i < 0 {
			return errProjectNotFound
		}
		doc.Projects[i].Title = in.Title
		doc.Projects[i].Description = in.Description
		updated = doc.Projects[i]
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cms: update project %d: %w", id, err)
	}
	s.publish("project.updated", map[string]any{"id": id})
	return &updated, nil
}

// DeleteProject removes a project and, best-effort, its attachment.
// A failure to remove the file is logged and does not stop the delete.
func (s *Service) DeleteProject(ctx context.Context, id int) error {
	err := s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		i := doc.ProjectIndex(id)
		if i < 0 {
			return errProjectNotFound
		}
		if f := doc.Projects[i].File; f != nil {
			if err := s.files.Remove(*f); err != nil {
				s.logger.Warn("delete project: remove attachment failed",
					slog.Int("project_id", id),
					slog.String("file", *f),
					slog.String("error", err.Error()))
			}
		}
		doc.Projects = append(doc.Projects[:i], doc.Projects[i+1:]...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cms: delete project %d: %w", id, err)
	}
	s.publish("project.deleted", map[string]any{"id": id})
	return nil
}

// QuickCreate creates a project and stores its PDF in one step.
// Both the fields and the file are validated before anything touches disk.
func (s *Service) QuickCreate(ctx context.Context, title, description, fileData string) (*models.Project, error) {
	in := newProjectInput(title, description)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if fileData == "" {
		return nil, apperr.Invalid("PDF file is required")
	}
	data, err := uploads.DecodePDF(fileData, s.maxBytes)
	if err != nil {
		return nil, err
	}

	var created models.Project
	err = s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		id := doc.AllocateProjectID()
		name := uploads.ProjectFilename(id)
		if err := s.files.Write(name, data); err != nil {
			return err
		}
		created = models.Project{
			ID:          id,
			Title:       in.Title,
			Description: in.Description,
			File:        models.StringPtr(name),
		}
		doc.Projects = append(doc.Projects, created)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cms: quick create: %w", err)
	}
	s.publish("project.created", map[string]any{"id": created.ID, "file": *created.File})
	return &created, nil
}
