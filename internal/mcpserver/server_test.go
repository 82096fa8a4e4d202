package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dalvah/planease/internal/models"
	"github.com/dalvah/planease/internal/planner"
	"github.com/dalvah/planease/internal/testutil"
)

// 2026-03-10 is a Tuesday.
var testNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func testServer(t *testing.T) (*Server, *planner.Store) {
	t.Helper()
	store := planner.NewStore()
	srv := New(store, &testutil.FixedClock{T: testNow})
	return srv, store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so we dispatch to the
	// handler functions ourselves.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_items":
		result, err = srv.listItems(ctx, req)
	case "today_events":
		result, err = srv.todayEvents(ctx, req)
	case "upcoming_tasks":
		result, err = srv.upcomingTasks(ctx, req)
	case "create_item":
		result, err = srv.createItem(ctx, req)
	case "toggle_complete":
		result, err = srv.toggleComplete(ctx, req)
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

func TestCreateAndListItems(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "create_item", map[string]interface{}{
		"title":      "Lecture",
		"kind":       "event",
		"start_date": "2026-03-10",
		"start_time": "09:00",
		"end_time":   "11:00",
	})
	if r.IsError {
		t.Fatalf("create failed: %s", resultText(r))
	}
	if len(store.Items()) != 1 {
		t.Fatalf("store items = %d", len(store.Items()))
	}

	r = callTool(t, srv, "list_items", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, `"Lecture"`) {
		t.Errorf("list output missing item: %q", text)
	}
}

func TestListItemsFilter(t *testing.T) {
	srv, store := testServer(t)
	mustAdd(t, store, models.Item{Title: "Done task", Kind: models.KindTask, Completed: true})
	mustAdd(t, store, models.Item{Title: "Open task", Kind: models.KindTask})

	r := callTool(t, srv, "list_items", map[string]interface{}{"filter": "completed"})
	text := resultText(r)
	if !strings.Contains(text, "Done task") || strings.Contains(text, "Open task") {
		t.Errorf("completed filter output = %q", text)
	}

	r = callTool(t, srv, "list_items", map[string]interface{}{"filter": "bogus"})
	if !r.IsError {
		t.Error("unknown filter should be a tool error")
	}
}

func TestTodayEvents(t *testing.T) {
	srv, store := testServer(t)
	mustAdd(t, store, models.Item{
		Title: "Today", Kind: models.KindEvent,
		StartDate: models.Date{Year: 2026, Month: 3, Day: 10},
	})
	mustAdd(t, store, models.Item{
		Title: "Tomorrow", Kind: models.KindEvent,
		StartDate: models.Date{Year: 2026, Month: 3, Day: 11},
	})

	text := resultText(callTool(t, srv, "today_events", map[string]interface{}{}))
	if !strings.Contains(text, "Today") || strings.Contains(text, "Tomorrow") {
		t.Errorf("today_events output = %q", text)
	}
}

func TestUpcomingTasksWindow(t *testing.T) {
	srv, store := testServer(t)
	mustAdd(t, store, models.Item{
		Title: "Soon", Kind: models.KindTask,
		DueDate: models.Date{Year: 2026, Month: 3, Day: 12},
	})
	mustAdd(t, store, models.Item{
		Title: "Far", Kind: models.KindTask,
		DueDate: models.Date{Year: 2026, Month: 3, Day: 25},
	})

	text := resultText(callTool(t, srv, "upcoming_tasks", map[string]interface{}{"days": "3"}))
	if !strings.Contains(text, "Soon") || strings.Contains(text, "Far") {
		t.Errorf("upcoming_tasks output = %q", text)
	}

	r := callTool(t, srv, "upcoming_tasks", map[string]interface{}{"days": "soonish"})
	if !r.IsError {
		t.Error("non-numeric days should be a tool error")
	}
}

func TestCreateItemValidation(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_item", map[string]interface{}{"kind": "event"})
	if !r.IsError {
		t.Error("missing title should be a tool error")
	}

	r = callTool(t, srv, "create_item", map[string]interface{}{
		"title":    "Bad date",
		"kind":     "task",
		"due_date": "12/03/2026",
	})
	if !r.IsError {
		t.Error("unparsable date should be a tool error")
	}
}

func TestToggleComplete(t *testing.T) {
	srv, store := testServer(t)
	created := mustAdd(t, store, models.Item{Title: "Flip me", Kind: models.KindTask})

	r := callTool(t, srv, "toggle_complete", map[string]interface{}{"id": "1"})
	if r.IsError {
		t.Fatalf("toggle failed: %s", resultText(r))
	}
	got, err := store.Item(created.ID)
	if err != nil || !got.Completed {
		t.Errorf("item not toggled: %+v, %v", got, err)
	}

	r = callTool(t, srv, "toggle_complete", map[string]interface{}{"id": "999"})
	if !r.IsError {
		t.Error("unknown id should be a tool error")
	}
	r = callTool(t, srv, "toggle_complete", map[string]interface{}{"id": "seven"})
	if !r.IsError {
		t.Error("non-numeric id should be a tool error")
	}
}

func mustAdd(t *testing.T, store *planner.Store, item models.Item) models.Item {
	t.Helper()
	created, err := store.AddItem(item)
	if err != nil {
		t.Fatal(err)
	}
	return created
}
