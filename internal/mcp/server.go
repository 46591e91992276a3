package mcp

import (
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/runlog/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"runlog_write": {
		def:     writeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWrite },
	},
	"runlog_weekly": {
		def:     weeklyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWeekly },
	},
	"runlog_recent": {
		def:     recentToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecent },
	},
}

// AllToolNames returns all valid tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns the names in the list that are not tools.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the runlog tools registered.
// Tools listed in cfg.DisabledTools are excluded.
func NewServer(cfg *config.Config, root, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"runlog",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(cfg, root)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves the MCP tools over stdio until stdin closes.
func Run(cfg *config.Config, root, version string) error {
	return server.ServeStdio(NewServer(cfg, root, version))
}
