package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/crypto/bcrypt"

	"github.com/starford/corkboard/internal/auth"
	"github.com/starford/corkboard/internal/models"
	"github.com/starford/corkboard/internal/noteservice"
	"github.com/starford/corkboard/internal/testutil"
)

// testServer returns a server and the token of a registered user.
func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	db := testutil.TestDB(t)
	tm, err := auth.NewTokenManager("mcp-test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	authSvc := auth.NewService(db, tm, auth.NewHasher(bcrypt.MinCost))
	res, err := authSvc.Register(context.Background(), "alice", "alice@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	return New(authSvc, noteservice.NewService(db)), res.Token
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "get_quota":
		result, err = srv.getQuota(ctx, req)
	case "render_board":
		result, err = srv.renderBoard(ctx, req)
	case "get_board_rules":
		result, err = srv.getBoardRules(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndListNotes(t *testing.T) {
	srv, token := testServer(t)

	r := callTool(t, srv, "create_note", map[string]interface{}{
		"token":   token,
		"content": "hello",
		"x":       10.0,
		"y":       20.0,
	})
	if r.IsError {
		t.Fatalf("create failed: %s", resultText(r))
	}
	var created models.Note
	if err := json.Unmarshal([]byte(resultText(r)), &created); err != nil {
		t.Fatal(err)
	}
	if created.Content != "hello" || created.X != 10 || created.Y != 20 || created.OwnerName != "alice" {
		t.Errorf("created = %+v", created)
	}

	r = callTool(t, srv, "list_notes", map[string]interface{}{})
	var notes []models.Note
	if err := json.Unmarshal([]byte(resultText(r)), &notes); err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].ID != created.ID {
		t.Errorf("notes = %+v", notes)
	}
}

func TestCreateNoteBadToken(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_note", map[string]interface{}{
		"token": "nope", "content": "hello", "x": 0.0, "y": 0.0,
	})
	if !r.IsError {
		t.Fatal("expected error for bad token")
	}
	if got := resultText(r); got != "Access token required" {
		t.Errorf("error = %q", got)
	}
}

func TestCreateNoteMissingCoordinate(t *testing.T) {
	srv, token := testServer(t)
	r := callTool(t, srv, "create_note", map[string]interface{}{
		"token": token, "content": "hello", "x": 1.0,
	})
	if !r.IsError {
		t.Error("expected error for missing y")
	}
}

func TestGetQuota(t *testing.T) {
	srv, token := testServer(t)
	callTool(t, srv, "create_note", map[string]interface{}{
		"token": token, "content": "one", "x": 0.0, "y": 0.0,
	})

	r := callTool(t, srv, "get_quota", map[string]interface{}{"token": token})
	var q models.Quota
	if err := json.Unmarshal([]byte(resultText(r)), &q); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	if q != (models.Quota{Limit: 10, Used: 1, Remaining: 9}) {
		t.Errorf("quota = %+v", q)
	}
}

func TestRenderBoard(t *testing.T) {
	srv, token := testServer(t)
	callTool(t, srv, "create_note", map[string]interface{}{
		"token": token, "content": "visible", "x": 10.0, "y": 10.0,
	})

	r := callTool(t, srv, "render_board", map[string]interface{}{"width": 300.0, "height": 200.0})
	text := resultText(r)
	if !strings.HasPrefix(strings.TrimSpace(text), "<?xml") || !strings.Contains(text, "visible") {
		t.Errorf("unexpected svg: %s", text)
	}

	r = callTool(t, srv, "render_board", map[string]interface{}{"width": 0.0})
	if !r.IsError {
		t.Error("expected error for zero width")
	}

	r = callTool(t, srv, "render_board", map[string]interface{}{"pan_x": 1e18})
	if !r.IsError {
		t.Error("expected error for out of range pan")
	}
}

func TestGetBoardRules(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_board_rules", map[string]interface{}{}))
	if !strings.Contains(text, "10 notes per calendar day") {
		t.Errorf("rules missing limit: %s", text)
	}
}
