// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes PlanEase planner tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dalvah/planease/internal/alarm"
	"github.com/dalvah/planease/internal/models"
	"github.com/dalvah/planease/internal/planner"
)

// Server wraps the MCP server with PlanEase tools.
type Server struct {
	mcp   *server.MCPServer
	store *planner.Store
	clock alarm.Clock
}

// New creates a new MCP server with all PlanEase tools registered.
func New(store *planner.Store, clock alarm.Clock) *Server {
	if clock == nil {
		clock = alarm.SystemClock()
	}
	s := &Server{store: store, clock: clock}

	s.mcp = server.NewMCPServer(
		"PlanEase",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List planner items (events and tasks), optionally narrowed by a view filter."),
		mcp.WithString("filter", mcp.Description("View selector: all, current, missed, completed, optionally suffixed with -tasks or -events (e.g. missed-tasks)")),
	), s.listItems)

	s.mcp.AddTool(mcp.NewTool("today_events",
		mcp.WithDescription("List events that start today."),
	), s.todayEvents)

	s.mcp.AddTool(mcp.NewTool("upcoming_tasks",
		mcp.WithDescription("List incomplete tasks due within the next N days."),
		mcp.WithString("days", mcp.Description("Window in days (default 7)")),
	), s.upcomingTasks)

	s.mcp.AddTool(mcp.NewTool("create_item",
		mcp.WithDescription("Create a planner item. Dates use YYYY-MM-DD, times use 24-hour HH:MM."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Item title")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Either event or task")),
		mcp.WithString("category", mcp.Description("school, work, or personal")),
		mcp.WithString("start_date", mcp.Description("Start date (YYYY-MM-DD)")),
		mcp.WithString("start_time", mcp.Description("Start time (HH:MM)")),
		mcp.WithString("end_time", mcp.Description("End time (HH:MM)")),
		mcp.WithString("due_date", mcp.Description("Due date for tasks (YYYY-MM-DD)")),
		mcp.WithString("description", mcp.Description("Optional description")),
	), s.createItem)

	s.mcp.AddTool(mcp.NewTool("toggle_complete",
		mcp.WithDescription("Toggle an item's completed flag."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Numeric item id")),
	), s.toggleComplete)

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

func (s *Server) listItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	selector := ""
	if f, err := req.RequireString("filter"); err == nil {
		selector = f
	}
	filter, err := planner.ParseFilter(selector)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items := planner.FilterItems(s.store.Items(), filter, s.clock.Now())
	planner.SortItems(items)
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) todayEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events := planner.TodayEvents(s.store.Items(), s.clock.Now())
	out, _ := json.MarshalIndent(events, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) upcomingTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := 7
	if d, err := req.RequireString("days"); err == nil {
		parsed, convErr := strconv.Atoi(d)
		if convErr != nil || parsed < 0 {
			return mcp.NewToolResultError(fmt.Sprintf("invalid days value: %q", d)), nil
		}
		days = parsed
	}
	tasks := planner.UpcomingTasks(s.store.Items(), s.clock.Now(), days)
	out, _ := json.MarshalIndent(tasks, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	item := models.Item{
		Title: title,
		Kind:  models.Kind(kind),
	}
	if v, e := req.RequireString("category"); e == nil {
		item.Category = models.Category(v)
	}
	if v, e := req.RequireString("description"); e == nil {
		item.Description = v
	}
	if v, e := req.RequireString("start_date"); e == nil {
		if item.StartDate, err = models.ParseDate(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if v, e := req.RequireString("due_date"); e == nil {
		if item.DueDate, err = models.ParseDate(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if v, e := req.RequireString("start_time"); e == nil {
		if item.StartTime, err = models.ParseTimeOfDay(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if v, e := req.RequireString("end_time"); e == nil {
		if item.EndTime, err = models.ParseTimeOfDay(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	created, err := s.store.AddItem(item)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(created, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) toggleComplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid id: %q", raw)), nil
	}
	item, err := s.store.ToggleComplete(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %d", id)), nil
	}
	out, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
