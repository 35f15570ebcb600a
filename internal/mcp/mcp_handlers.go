package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/covlens/covlens/core/loader"
	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/internal/locator"
	"github.com/covlens/covlens/internal/outwriter"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.MeasureStore
}

func (h *toolHandler) handleImportCoverage(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("project_path", ""); p != "" {
		cfg.ProjectPath = p
	}
	if r := request.GetString("report_paths", ""); r != "" {
		cfg.ReportPaths = contract.SplitList(r)
	}
	if r := request.GetString("it_report_paths", ""); r != "" {
		cfg.ITReportPaths = contract.SplitList(r)
	}
	if r := request.GetString("unittest_report_paths", ""); r != "" {
		cfg.UnitTestReportPaths = contract.SplitList(r)
	}
	if e := request.GetString("exclude", ""); e != "" {
		cfg.Excludes = contract.SplitList(e)
	}

	loc, err := locator.NewFileSystemLocator(cfg.ProjectPath, cfg.Excludes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot index project: %v", err)), nil
	}

	summaries, err := loader.ExecuteImport(cfg, loc, h.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
	}

	jsonData, err := outwriter.ImportSummariesJSON(summaries)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot render summaries: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleValidateReports(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reportPaths := contract.SplitList(request.GetString("report_paths", ""))
	if len(reportPaths) == 0 {
		return mcp.NewToolResultError("report_paths is required"), nil
	}

	if err := loader.ExecuteValidate(reportPaths); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("All %d reports are valid", len(reportPaths))), nil
}

func (h *toolHandler) handleGetMeasuresStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot get measure status: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
