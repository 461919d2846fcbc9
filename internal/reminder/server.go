package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "reminder"
	serverVersion = "1.0.0"

	defaultLogLimit = 50
)

// Server exposes the reminder store as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	store     *Store
	now       func() time.Time
}

// NewServer creates a new Reminder MCP server backed by the given store.
func NewServer(store *Store) *Server {
	s := &Server{
		store: store,
		now:   time.Now,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	dueHelp := fmt.Sprintf("Due time as %q in the server's timezone, or RFC3339", DueLayout)

	// add_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a new reminder with a title, due time, optional description, category and recurrence"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
			mcp.WithString("due_at", mcp.Required(), mcp.Description(dueHelp)),
			mcp.WithString("description", mcp.Description("Optional description")),
			mcp.WithString("category", mcp.Description("Optional category tag")),
			mcp.WithString("recurrence", mcp.Description("none, daily, weekly or monthly (default: none)")),
		),
		s.handleAddReminder,
	)

	// list_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List all reminders, optionally filtered by status (pending or completed)"),
			mcp.WithString("status", mcp.Description("Filter by status: pending, completed, or empty for all")),
		),
		s.handleListReminders,
	)

	// get_due_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("get_due_reminders",
			mcp.WithDescription("Get pending reminders that are overdue or due within the given number of minutes"),
			mcp.WithNumber("within_minutes", mcp.Description("Look-ahead in minutes (default: 0, due now or overdue)")),
		),
		s.handleGetDueReminders,
	)

	// complete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("complete_reminder",
			mcp.WithDescription("Mark a reminder as completed; it will not fire again"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleCompleteReminder,
	)

	// delete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)

	// update_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("update_reminder",
			mcp.WithDescription("Update a reminder's fields. Changing due_at re-arms both notifications"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description")),
			mcp.WithString("due_at", mcp.Description(dueHelp)),
			mcp.WithString("category", mcp.Description("New category")),
			mcp.WithString("recurrence", mcp.Description("none, daily, weekly or monthly")),
			mcp.WithString("status", mcp.Description("pending or completed")),
		),
		s.handleUpdateReminder,
	)

	// reminder_log
	s.mcpServer.AddTool(
		mcp.NewTool("reminder_log",
			mcp.WithDescription("Show the most recently created reminders"),
			mcp.WithNumber("limit", mcp.Description(fmt.Sprintf("Number of entries (default: %d)", defaultLogLimit))),
		),
		s.handleReminderLog,
	)
}

func (s *Server) handleAddReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dueAt, err := ParseDueAt(req.GetString("due_at", ""), s.store.Location())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	recurrence, err := ParseRecurrence(req.GetString("recurrence", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r := Reminder{
		Title:       req.GetString("title", ""),
		Description: req.GetString("description", ""),
		DueAt:       dueAt,
		Category:    req.GetString("category", ""),
		Recurrence:  recurrence,
	}

	id, err := s.store.Create(ctx, r)
	if err != nil {
		return toolError("failed to add reminder", err), nil
	}

	added, err := s.store.Get(ctx, id)
	if err != nil {
		return toolError("failed to read back reminder", err), nil
	}

	return jsonResult(added), nil
}

func (s *Server) handleListReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var status Status
	if v := req.GetString("status", ""); v != "" {
		parsed, err := ParseStatus(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		status = parsed
	}

	reminders, err := s.store.List(ctx, status)
	if err != nil {
		return toolError("failed to list reminders", err), nil
	}

	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	return jsonResult(reminders), nil
}

func (s *Server) handleGetDueReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	within := req.GetFloat("within_minutes", 0)
	if within < 0 {
		return mcp.NewToolResultError("within_minutes must not be negative"), nil
	}
	until := s.now().Add(time.Duration(within * float64(time.Minute)))

	reminders, err := s.store.ListRange(ctx, time.Time{}, until, StatusPending)
	if err != nil {
		return toolError("failed to get due reminders", err), nil
	}

	if len(reminders) == 0 {
		return mcp.NewToolResultText("No due reminders."), nil
	}

	return jsonResult(reminders), nil
}

func (s *Server) handleCompleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.store.Complete(ctx, id); err != nil {
		return toolError("failed to complete reminder", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d marked as completed.", id)), nil
}

func (s *Server) handleDeleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return toolError("failed to delete reminder", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d deleted.", id)), nil
}

func (s *Server) handleUpdateReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	var fields UpdateFields

	if v := req.GetString("title", ""); v != "" {
		fields.Title = &v
	}
	if v := req.GetString("description", ""); v != "" {
		fields.Description = &v
	}
	if v := req.GetString("category", ""); v != "" {
		fields.Category = &v
	}
	if v := req.GetString("due_at", ""); v != "" {
		t, err := ParseDueAt(v, s.store.Location())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fields.DueAt = &t
	}
	if v := req.GetString("recurrence", ""); v != "" {
		rec, err := ParseRecurrence(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fields.Recurrence = &rec
	}
	if v := req.GetString("status", ""); v != "" {
		st, err := ParseStatus(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fields.Status = &st
	}

	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return toolError("failed to update reminder", err), nil
	}

	return jsonResult(updated), nil
}

func (s *Server) handleReminderLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(req.GetFloat("limit", defaultLogLimit))
	if limit <= 0 {
		limit = defaultLogLimit
	}

	reminders, err := s.store.Recent(ctx, limit)
	if err != nil {
		return toolError("failed to read task log", err), nil
	}

	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	return jsonResult(reminders), nil
}

func requireID(req mcp.CallToolRequest) (int64, *mcp.CallToolResult) {
	idFloat := req.GetFloat("id", -1)
	if idFloat <= 0 {
		return 0, mcp.NewToolResultError("id is required and must be a positive number")
	}
	return int64(idFloat), nil
}

func toolError(action string, err error) *mcp.CallToolResult {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return mcp.NewToolResultError(ve.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", action, err))
}

func jsonResult(v any) *mcp.CallToolResult {
	output, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(output))
}
