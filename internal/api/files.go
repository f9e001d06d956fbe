package api

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/uploads"
)

// UploadResume handles POST /api/upload/resume.
//
//	@Summary		Replace the resume PDF
//	@Tags			files
//	@Accept			json
//	@Produce		json
//	@Param			body	body		FileUploadRequest	true	"Base64 PDF"
//	@Success		200		{object}	FileResponse
//	@Security		BearerAuth
//	@Router			/upload/resume [post]
func (h *Handler) UploadResume(w http.ResponseWriter, r *http.Request) {
	var req FileUploadRequest
	if err := decodeJSON(w, r, h.bodyLimit, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	name, err := h.cms.UploadResume(r.Context(), req.File)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FileResponse{Success: true, File: name})
}

// UploadProjectFile handles POST /api/upload/project/{id}.
func (h *Handler) UploadProjectFile(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req FileUploadRequest
	if err := decodeJSON(w, r, h.bodyLimit, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	name, err := h.cms.UploadProjectFile(r.Context(), id, req.File)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FileResponse{Success: true, File: name})
}

// DeleteResume handles POST /api/delete-resume.
func (h *Handler) DeleteResume(w http.ResponseWriter, r *http.Request) {
	if err := h.cms.DeleteResume(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// DeleteProjectFile handles DELETE /api/delete-project-file/{id}.
func (h *Handler) DeleteProjectFile(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.cms.DeleteProjectFile(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// GetResume handles GET /api/resume.
//
//	@Summary		Current resume PDF
//	@Tags			files
//	@Produce		application/pdf
//	@Success		200
//	@Failure		404	{object}	errResponse
//	@Router			/resume [get]
func (h *Handler) GetResume(w http.ResponseWriter, r *http.Request) {
	path, err := h.cms.ResumePath(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

// UploadsHandler serves stored PDFs by name from the upload directory.
type UploadsHandler struct {
	dir *uploads.Dir
}

// NewUploadsHandler creates a handler over dir.
func NewUploadsHandler(dir *uploads.Dir) *UploadsHandler {
	return &UploadsHandler{dir: dir}
}

// ServeFile handles GET /uploads/{filename}.
func (h *UploadsHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	abs, err := h.dir.Path(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid filename"))
		return
	}
	if !h.dir.Exists(name) {
		http.NotFound(w, r)
		return
	}
	if filepath.Ext(name) == ".pdf" {
		w.Header().Set("Content-Type", "application/pdf")
	}
	http.ServeFile(w, r, abs)
}
