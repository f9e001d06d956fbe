// Package cms implements the content, project and attachment operations on
// top of the content document.
package cms

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/store"
	"github.com/starford/folio/internal/uploads"
)

// Notifier receives a change event after every successful mutation.
type Notifier interface {
	PublishChange(kind string, data map[string]any)
}

type nopNotifier struct{}

func (nopNotifier) PublishChange(string, map[string]any) {}

// Service coordinates the document store and the upload directory.
type Service struct {
	repo     *store.Repo
	files    *uploads.Dir
	maxBytes int64
	notify   Notifier
	logger   *slog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithNotifier sets the change event sink.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notify = n
		}
	}
}

// WithMaxUploadBytes overrides the attachment size ceiling.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a new CMS service.
func NewService(repo *store.Repo, files *uploads.Dir, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		files:    files,
		maxBytes: uploads.DefaultMaxBytes,
		notify:   nopNotifier{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxUploadBytes returns the attachment size ceiling.
func (s *Service) MaxUploadBytes() int64 {
	return s.maxBytes
}

// GetContent returns the full document with the password hash removed.
func (s *Service) GetContent(ctx context.Context) (*models.ContentDocument, error) {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("cms: get content: %w", err)
	}
	doc.Normalize()
	return doc.Public(), nil
}

func (s *Service) publish(kind string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	s.notify.PublishChange(kind, data)
}
