// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes corkboard tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/corkboard/internal/auth"
	"github.com/starford/corkboard/internal/noteservice"
	"github.com/starford/corkboard/internal/render"
	"github.com/starford/corkboard/internal/viewport"
)

const rulesURI = "corkboard://board-rules"

// Server wraps the MCP server with corkboard tools.
type Server struct {
	mcp      *server.MCPServer
	auth     *auth.Service
	notes    *noteservice.Service
	renderer *render.Renderer
}

// New creates a new MCP server with all corkboard tools registered.
func New(authSvc *auth.Service, notes *noteservice.Service) *Server {
	s := &Server{auth: authSvc, notes: notes, renderer: &render.Renderer{}}

	s.mcp = server.NewMCPServer(
		"Corkboard",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every note on the board as JSON, oldest first."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Place a note on the board at world coordinates (x, y). "+
			"Counts against the daily quota of the token's owner. Read the rules first via "+
			"the get_board_rules tool or the "+rulesURI+" resource."),
		mcp.WithString("token", mcp.Required(), mcp.Description("Bearer token from login or registration")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note text, at most 200 characters")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("World x coordinate of the note center")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("World y coordinate of the note center")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("get_quota",
		mcp.WithDescription("Report today's note allowance for the token's owner."),
		mcp.WithString("token", mcp.Required(), mcp.Description("Bearer token from login or registration")),
	), s.getQuota)

	s.mcp.AddTool(mcp.NewTool("render_board",
		mcp.WithDescription("Render the visible part of the board as SVG."),
		mcp.WithNumber("zoom", mcp.Description("Zoom factor between 0.1 and 5 (default 1)")),
		mcp.WithNumber("pan_x", mcp.Description("Horizontal pan in world units (default 0)")),
		mcp.WithNumber("pan_y", mcp.Description("Vertical pan in world units (default 0)")),
		mcp.WithNumber("width", mcp.Description("Image width in pixels (default 1200)")),
		mcp.WithNumber("height", mcp.Description("Image height in pixels (default 800)")),
	), s.renderBoard)

	s.mcp.AddTool(mcp.NewTool("get_board_rules",
		mcp.WithDescription("Returns the board's coordinate system and note rules. "+
			"Call this before placing notes."),
	), s.getBoardRules)

	s.mcp.AddResource(
		mcp.NewResource(rulesURI, "Board Rules",
			mcp.WithResourceDescription("Coordinate system, limits and rules for placing notes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readBoardRulesResource,
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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.notes.ListNotes(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(notes)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := req.RequireString("token")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, err := req.RequireFloat("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := req.RequireFloat("y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	owner, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.notes.CreateNote(ctx, owner, noteservice.CreateRequest{Content: content, X: &x, Y: &y})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note)
}

func (s *Server) getQuota(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := req.RequireString("token")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	owner, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	q, err := s.notes.GetQuota(ctx, owner)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(q)
}

func (s *Server) renderBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	width := req.GetFloat("width", 1200)
	height := req.GetFloat("height", 800)
	if width < 1 || height < 1 || width > 4096 || height > 4096 {
		return mcp.NewToolResultError(fmt.Sprintf("image size %gx%g out of range", width, height)), nil
	}
	panX := req.GetFloat("pan_x", 0)
	panY := req.GetFloat("pan_y", 0)
	if !(math.Abs(panX) <= viewport.MaxPan && math.Abs(panY) <= viewport.MaxPan) {
		return mcp.NewToolResultError(fmt.Sprintf("pan (%g, %g) out of range", panX, panY)), nil
	}
	notes, err := s.notes.ListNotes(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	vp := viewport.New()
	vp.Set(req.GetFloat("zoom", 1), panX, panY)
	return mcp.NewToolResultText(string(render.RenderSVG(s.renderer, vp, width, height, notes))), nil
}

func (s *Server) getBoardRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(boardRules(s.notes.Limit())), nil
}

func (s *Server) readBoardRulesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      rulesURI,
			MIMEType: "text/markdown",
			Text:     boardRules(s.notes.Limit()),
		},
	}, nil
}
