package api

import "net/http"

// CreateProject handles POST /api/projects.
//
//	@Summary		Create a project
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ProjectRequest	true	"Project"
//	@Success		200		{object}	Project
//	@Security		BearerAuth
//	@Router			/projects [post]
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := decodeJSON(w, r, bodySlack, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.cms.CreateProject(r.Context(), req.Title, req.Description)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProject handles PUT /api/projects/{id}.
//
//	@Summary		Update a project
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Project id"
//	@Param			body	body		ProjectRequest	true	"Project"
//	@Success		200		{object}	Project
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/projects/{id} [put]
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req ProjectRequest
	if err := decodeJSON(w, r, bodySlack, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.cms.UpdateProject(r.Context(), id, req.Title, req.Description)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProject handles DELETE /api/projects/{id}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.cms.DeleteProject(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// QuickUpload handles POST /api/projects/quick-upload.
//
//	@Summary		Create a project with its PDF
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			body	body		QuickUploadRequest	true	"Project and base64 PDF"
//	@Success		200		{object}	Project
//	@Security		BearerAuth
//	@Router			/projects/quick-upload [post]
func (h *Handler) QuickUpload(w http.ResponseWriter, r *http.Request) {
	var req QuickUploadRequest
	if err := decodeJSON(w, r, h.bodyLimit, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.cms.QuickCreate(r.Context(), req.Title, req.Description, req.File)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
