package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/auth"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/cms"
)

// bodySlack covers JSON framing and the text fields around a base64 file.
const bodySlack = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	cms       *cms.Service
	auth      *auth.Service
	notify    cms.Notifier
	logger    *slog.Logger
	bodyLimit int64
}

// NewHandler creates a new Handler. notify may be nil.
func NewHandler(svc *cms.Service, authSvc *auth.Service, notify cms.Notifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cms:    svc,
		auth:   authSvc,
		notify: notify,
		logger: logger,
		// base64 inflates by 4/3.
		bodyLimit: svc.MaxUploadBytes()*4/3 + bodySlack,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, h.logger, err)
}

func projectID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("Invalid project ID")
	}
	return id, nil
}

// GetContent handles GET /api/content.
//
//	@Summary		Full site content
//	@Tags			content
//	@Produce		json
//	@Success		200	{object}	models.ContentDocument
//	@Success		304
//	@Router			/content [get]
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	doc, err := h.cms.GetContent(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body, err := json.Marshal(doc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body = append(body, '\n')

	etag := checksum.ETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if checksum.Matches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// UpdateField handles PUT /api/content.
//
//	@Summary		Set one field of a section
//	@Tags			content
//	@Accept			json
//	@Produce		json
//	@Param			body	body		UpdateFieldRequest	true	"Field update"
//	@Success		200		{object}	SuccessResponse
//	@Security		BearerAuth
//	@Router			/content [put]
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req UpdateFieldRequest
	if err := decodeJSON(w, r, bodySlack, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.cms.UpdateField(r.Context(), req.Section, req.Field, req.Value); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// UpsertSection handles POST /api/content/section.
//
//	@Summary		Create or overwrite a section
//	@Tags			content
//	@Accept			json
//	@Produce		json
//	@Param			body	body		UpsertSectionRequest	true	"Section"
//	@Success		200		{object}	SuccessResponse
//	@Security		BearerAuth
//	@Router			/content/section [post]
func (h *Handler) UpsertSection(w http.ResponseWriter, r *http.Request) {
	var req UpsertSectionRequest
	if err := decodeJSON(w, r, bodySlack, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.cms.UpsertSection(r.Context(), req.Section, req.Title, req.Description); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Login handles POST /api/login.
//
//	@Summary		Exchange the admin password for a token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		401		{object}	errResponse
//	@Router			/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, bodySlack, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	token, err := h.auth.Login(r.Context(), req.Password)
	if err != nil {
		h.logger.Info("login failed", slog.String("remote", r.RemoteAddr))
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Logout handles POST /api/logout. Tokens are stateless; this only
// acknowledges and records which token was dropped.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := ClaimsFrom(r.Context()); ok {
		h.logger.Info("admin logged out", slog.String("jti", claims.ID))
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// ChangePassword handles POST /api/change-password.
//
//	@Summary		Replace the admin password
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ChangePasswordRequest	true	"Passwords"
//	@Success		200		{object}	SuccessResponse
//	@Security		BearerAuth
//	@Router			/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeJSON(w, r, bodySlack, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.auth.ChangePassword(r.Context(), req.OldPassword, req.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	if h.notify != nil {
		h.notify.PublishChange("password.changed", nil)
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "Password changed successfully"})
}
