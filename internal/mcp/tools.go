package mcp

import "github.com/mark3labs/mcp-go/mcp"

var writeToolDef = mcp.NewTool("runlog_write",
	mcp.WithDescription("Create one timestamped run record in the repository's run log directory. "+
		"Returns the path of the new record."),
	mcp.WithString("label", mcp.Required(),
		mcp.Description("Short name used verbatim in the filename, e.g. devcontainer-smoke")),
	mcp.WithString("summary", mcp.Required(),
		mcp.Description("One-line description of the run")),
	mcp.WithString("intent", mcp.Required(),
		mcp.Description("Why the run happened")),
	mcp.WithString("results",
		mcp.Description("What came out of the run; a placeholder is written when omitted")),
	mcp.WithString("next_actions",
		mcp.Description("Follow-up work; a placeholder is written when omitted")),
)

var weeklyToolDef = mcp.NewTool("runlog_weekly",
	mcp.WithDescription("Aggregate run records from the trailing window, prepend a digest block "+
		"to the weekly report and return the report path, class counts and the block."),
	mcp.WithDestructiveHintAnnotation(false),
)

var recentToolDef = mcp.NewTool("runlog_recent",
	mcp.WithDescription("List run records from the trailing window, newest first, without "+
		"writing the report."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum records to list (default: recent_limit from config, max 100)")),
	mcp.WithReadOnlyHintAnnotation(true),
)
