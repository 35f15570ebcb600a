// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/covlens/covlens/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Covlens MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.MeasureStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Covlens Coverage Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: import_coverage ---
	s.AddTool(mcp.NewTool("import_coverage",
		mcp.WithDescription("Parse generic coverage reports and aggregate per-file coverage measures."),
		mcp.WithString("project_path", mcp.Description("Path to the project the reports describe (defaults to the configured project).")),
		mcp.WithString("report_paths", mcp.Description("Comma-separated coverage report fragments.")),
		mcp.WithString("it_report_paths", mcp.Description("Comma-separated IT coverage report fragments.")),
		mcp.WithString("unittest_report_paths", mcp.Description("Comma-separated unit test report fragments.")),
		mcp.WithString("exclude", mcp.Description("Comma-separated path patterns to exclude from resolution.")),
	), h.handleImportCoverage)

	// --- 2. Tool: validate_reports ---
	s.AddTool(mcp.NewTool("validate_reports",
		mcp.WithDescription("Validate coverage report files against the generic coverage format without importing them."),
		mcp.WithString("report_paths", mcp.Description("Comma-separated report file paths."), mcp.Required()),
	), h.handleValidateReports)

	// --- 3. Tool: get_measures_status ---
	s.AddTool(mcp.NewTool("get_measures_status",
		mcp.WithDescription("Report status information about the measure store backend."),
	), h.handleGetMeasuresStatus)

	return s
}

// StartMCPServer starts the Covlens MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.MeasureStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
