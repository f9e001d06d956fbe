package cms

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// Length limits for caller-supplied text.
const (
	MaxProjectTitle       = 200
	MaxProjectDescription = 1000
	MaxSectionTitle       = 200
	MaxSectionDescription = 5000
)

// Section keys are lowercase slugs; "intro" addresses the intro block
// and cannot name a section.
var sectionKeyRe = regexp.MustCompile(`^[a-z][a-z0-9-]{0,31}$`)

func validateSectionKey(key string) error {
	if key == "" {
		return apperr.Invalid("Section is required")
	}
	err := validation.Validate(key,
		validation.Match(sectionKeyRe),
		validation.NotIn(models.IntroSection),
	)
	if err != nil {
		return apperr.Invalid("Invalid section")
	}
	return nil
}

type projectInput struct {
	Title       string
	Description string
}

func newProjectInput(title, description string) projectInput {
	return projectInput{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}
}

func (in *projectInput) Validate() error {
	return toValidation(validation.ValidateStruct(in,
		validation.Field(&in.Title,
			validation.Required.Error("Title and description are required"),
			validation.RuneLength(1, MaxProjectTitle).Error("Title or description too long")),
		validation.Field(&in.Description,
			validation.Required.Error("Title and description are required"),
			validation.RuneLength(1, MaxProjectDescription).Error("Title or description too long")),
	))
}

type sectionInput struct {
	Title       string
	Description string
}

func (in *sectionInput) Validate() error {
	return toValidation(validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.RuneLength(0, MaxSectionTitle).Error("Title too long")),
		validation.Field(&in.Description, validation.RuneLength(0, MaxSectionDescription).Error("Description too long")),
	))
}

// toValidation flattens ozzo field errors into one caller-facing message.
func toValidation(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	// Report the first failing field in declaration order.
	for _, field := range []string{"Title", "Description"} {
		if fe, ok := errs[field]; ok && fe != nil {
			return apperr.Invalid("%s", fe.Error())
		}
	}
	return apperr.Invalid("%s", errs.Error())
}
