package cms

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// UpdateField sets one field of the intro block or of an existing section.
// Nothing else in the document changes.
func (s *Service) UpdateField(ctx context.Context, section, field string, value *string) error {
	if section == "" || field == "" {
		return apperr.Invalid("Section and field are required")
	}
	if value == nil {
		return apperr.Invalid("Value is required")
	}
	if field != models.FieldTitle && field != models.FieldDescription {
		return apperr.Invalid("Invalid field: %s", field)
	}
	in := sectionInput{}
	if field == models.FieldTitle {
		in.Title = *value
	} else {
		in.Description = *value
	}
	if err := in.Validate(); err != nil {
		return err
	}

	err := s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		if section == models.IntroSection {
			setField(&doc.Intro, field, *value)
			return nil
		}
		key := models.SectionKey(section)
		sec, ok := doc.Sections[key]
		if !ok {
			return apperr.Invalid("Invalid section")
		}
		setField(&sec, field, *value)
		doc.Sections[key] = sec
		return nil
	})
	if err != nil {
		return fmt.Errorf("cms: update field: %w", err)
	}
	s.publish("content.updated", map[string]any{"section": section, "field": field})
	return nil
}

// UpsertSection creates the section if it does not exist, otherwise
// overwrites its title and description.
func (s *Service) UpsertSection(ctx context.Context, section, title, description string) error {
	section = strings.TrimSpace(section)
	if err := validateSectionKey(section); err != nil {
		return err
	}
	in := sectionInput{Title: title, Description: description}
	if err := in.Validate(); err != nil {
		return err
	}

	created := false
	err := s.repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		if doc.Sections == nil {
			doc.Sections = map[models.SectionKey]models.Section{}
		}
		key := models.SectionKey(section)
		_, exists := doc.Sections[key]
		created = !exists
		doc.Sections[key] = models.Section{Title: title, Description: description}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cms: upsert section: %w", err)
	}
	s.publish("section.updated", map[string]any{"section": section, "created": created})
	return nil
}

func setField(sec *models.Section, field, value string) {
	switch field {
	case models.FieldTitle:
		sec.Title = value
	case models.FieldDescription:
		sec.Description = value
	}
}
