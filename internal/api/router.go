package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/auth"
	"github.com/starford/folio/internal/cms"
	"github.com/starford/folio/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// events, if non-nil, is mounted at GET /events and receives password changes.
func NewRouter(svc *cms.Service, authSvc *auth.Service, events *sse.Broker, logger *slog.Logger) chi.Router {
	var notify cms.Notifier
	if events != nil {
		notify = events
	}
	h := NewHandler(svc, authSvc, notify, logger)

	r := chi.NewRouter()

	// Public.
	r.Get("/content", h.GetContent)
	r.Post("/login", h.Login)
	r.Get("/resume", h.GetResume)
	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	// Admin.
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(authSvc, h.logger))

		r.Post("/logout", h.Logout)
		r.Post("/change-password", h.ChangePassword)

		r.Put("/content", h.UpdateField)
		r.Post("/content/section", h.UpsertSection)

		r.Post("/projects", h.CreateProject)
		r.Post("/projects/quick-upload", h.QuickUpload)
		r.Put("/projects/{id}", h.UpdateProject)
		r.Delete("/projects/{id}", h.DeleteProject)

		r.Post("/upload/resume", h.UploadResume)
		r.Post("/upload/project/{id}", h.UploadProjectFile)
		r.Post("/delete-resume", h.DeleteResume)
		r.Delete("/delete-project-file/{id}", h.DeleteProjectFile)
	})

	return r
}

// MountUploads serves the upload directory under prefix, e.g. "/uploads".
func MountUploads(r chi.Router, prefix string, h *UploadsHandler) {
	r.Get(prefix+"/{filename}", h.ServeFile)
	r.Head(prefix+"/{filename}", h.ServeFile)
}
