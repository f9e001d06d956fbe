// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the site content tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/cms"
)

const guideURI = "folio://content-guide"

// Server wraps the MCP server with content tools.
type Server struct {
	mcp *server.MCPServer
	cms *cms.Service
}

// New creates a new MCP server with all content tools registered.
func New(svc *cms.Service, version string) *Server {
	s := &Server{cms: svc}

	s.mcp = server.NewMCPServer(
		"Folio",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_content",
		mcp.WithDescription("Return the whole site document: intro, sections, projects and resume file."),
	), s.getContent)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List projects with their ids, titles and attachment names."),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Return one project by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Project id")),
	), s.getProject)

	s.mcp.AddTool(mcp.NewTool("update_field",
		mcp.WithDescription("Set the title or description of the intro or an existing section. "+
			"Read the guide first via get_content_guide or the "+guideURI+" resource."),
		mcp.WithString("section", mcp.Required(), mcp.Description(`"intro" or an existing section key`)),
		mcp.WithString("field", mcp.Required(), mcp.Description(`"title" or "description"`)),
		mcp.WithString("value", mcp.Required(), mcp.Description("New text")),
	), s.updateField)

	s.mcp.AddTool(mcp.NewTool("upsert_section",
		mcp.WithDescription("Create a section or overwrite both its title and description."),
		mcp.WithString("section", mcp.Required(), mcp.Description("Section key (lowercase slug)")),
		mcp.WithString("title", mcp.Description("Section title")),
		mcp.WithString("description", mcp.Description("Section description")),
	), s.upsertSection)

	s.mcp.AddTool(mcp.NewTool("create_project",
		mcp.WithDescription("Add a project without an attachment."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Project title")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Project description")),
	), s.createProject)

	s.mcp.AddTool(mcp.NewTool("update_project",
		mcp.WithDescription("Replace the title and description of a project."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Project id")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Project title")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Project description")),
	), s.updateProject)

	s.mcp.AddTool(mcp.NewTool("attach_project_pdf",
		mcp.WithDescription("Store a PDF for a project, replacing any previous one."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Project id")),
		mcp.WithString("data", mcp.Required(), mcp.Description("Base64 PDF bytes or a data: URL")),
	), s.attachProjectPDF)

	s.mcp.AddTool(mcp.NewTool("get_content_guide",
		mcp.WithDescription("Returns the rules for section keys, field limits and attachments. "+
			"Call this before editing content."),
	), s.getContentGuide)

	s.mcp.AddResource(
		mcp.NewResource(guideURI, "Content Guide",
			mcp.WithResourceDescription("Structure and limits of the site document."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// toolError turns a service error into a tool result. Caller-facing
// messages pass through; anything else is reported as is.
func toolError(err error) *mcp.CallToolResult {
	if msg, ok := apperr.Message(err); ok {
		return mcp.NewToolResultError(msg)
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func requireID(req mcp.CallToolRequest) (int, error) {
	f, err := req.RequireFloat("id")
	if err != nil {
		return 0, err
	}
	id := int(f)
	if float64(id) != f || id <= 0 {
		return 0, fmt.Errorf("invalid project id: %v", f)
	}
	return id, nil
}

func (s *Server) getContent(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.cms.GetContent(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(doc)
}

type projectLine struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	File  *string `json:"file"`
}

func (s *Server) listProjects(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.cms.GetContent(ctx)
	if err != nil {
		return toolError(err), nil
	}
	if len(doc.Projects) == 0 {
		return mcp.NewToolResultText("no projects"), nil
	}
	lines := make([]projectLine, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		lines = append(lines, projectLine{ID: p.ID, Title: p.Title, File: p.File})
	}
	return jsonResult(lines)
}

func (s *Server) getProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.cms.Project(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(p)
}

func (s *Server) updateField(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section, err := req.RequireString("section")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	field, err := req.RequireString("field")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.cms.UpdateField(ctx, section, field, &value); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s.%s", section, field)), nil
}

func (s *Server) upsertSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section, err := req.RequireString("section")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := req.GetString("title", "")
	description := req.GetString("description", "")
	if err := s.cms.UpsertSection(ctx, section, title, description); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s", section)), nil
}

func (s *Server) createProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.cms.CreateProject(ctx, title, description)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(p)
}

func (s *Server) updateProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.cms.UpdateProject(ctx, id, title, description)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(p)
}

func (s *Server) attachProjectPDF(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := req.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := s.cms.UploadProjectFile(ctx, id, data)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("attached: /uploads/%s", name)), nil
}

func (s *Server) getContentGuide(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ContentGuide), nil
}

func (s *Server) readGuideResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      guideURI,
			MIMEType: "text/markdown",
			Text:     ContentGuide,
		},
	}, nil
}
