package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/runlog/internal/config"
	"github.com/hpungsan/runlog/internal/errors"
	"github.com/hpungsan/runlog/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg  *config.Config
	root string
}

// NewHandlers creates a new Handlers instance operating on the repository
// rooted at root.
func NewHandlers(cfg *config.Config, root string) *Handlers {
	return &Handlers{cfg: cfg, root: root}
}

// WriteRequest represents the arguments for runlog_write.
type WriteRequest struct {
	Label       string `json:"label"`
	Summary     string `json:"summary"`
	Intent      string `json:"intent"`
	Results     string `json:"results,omitempty"`
	NextActions string `json:"next_actions,omitempty"`
}

// WeeklyRequest represents the arguments for runlog_weekly.
type WeeklyRequest struct{}

// RecentRequest represents the arguments for runlog_recent.
type RecentRequest struct {
	Limit int `json:"limit,omitempty"`
}

// HandleWrite handles the runlog_write tool.
func (h *Handlers) HandleWrite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[WriteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Write(h.cfg, ops.WriteInput{
		Root:        h.root,
		Label:       input.Label,
		Summary:     input.Summary,
		Intent:      input.Intent,
		Results:     input.Results,
		NextActions: input.NextActions,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleWeekly handles the runlog_weekly tool.
func (h *Handlers) HandleWeekly(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := decode[WeeklyRequest](req); err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Weekly(ctx, h.cfg, ops.WeeklyInput{Root: h.root})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRecent handles the runlog_recent tool.
func (h *Handlers) HandleRecent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RecentRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Recent(ctx, h.cfg, ops.RecentInput{Root: h.root, Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any
	var rErr *errors.RunlogError
	if stderrors.As(err, &rErr) {
		errorObj := map[string]any{
			"code":    rErr.Code,
			"message": rErr.Message,
			"status":  rErr.Status,
		}
		// Internal errors may carry filesystem paths; keep details out.
		if rErr.Code != errors.ErrInternal && rErr.Details != nil {
			errorObj["details"] = rErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}
	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
