package api

import "github.com/starford/folio/internal/models"

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token string `json:"token" validate:"required"`
}

// UpdateFieldRequest is the body of PUT /api/content.
type UpdateFieldRequest struct {
	Section string  `json:"section" example:"intro" validate:"required"`
	Field   string  `json:"field" example:"title" validate:"required"`
	Value   *string `json:"value" example:"Hi" validate:"required"`
}

// UpsertSectionRequest is the body of POST /api/content/section.
type UpsertSectionRequest struct {
	Section     string `json:"section" example:"talks" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ChangePasswordRequest is the body of POST /api/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ProjectRequest is the body of project create and update calls.
type ProjectRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// QuickUploadRequest creates a project together with its PDF.
type QuickUploadRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	File        string `json:"file" validate:"required"`
}

// FileUploadRequest carries a base64 PDF, optionally as a data URL.
type FileUploadRequest struct {
	File string `json:"file" validate:"required"`
}

// SuccessResponse acknowledges a mutation.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// FileResponse names the stored upload.
type FileResponse struct {
	Success bool   `json:"success"`
	File    string `json:"file"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// Project is the project record returned by the API.
type Project = models.Project
