package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/ask/pkg/form"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(askQuestionTool(), askQuestionHandler(svc))
	srv.AddTool(listHistoryTool(), listHistoryHandler(svc))
}

func askQuestionTool() mcp.Tool {
	return mcp.NewTool(
		"ask_question",
		mcp.WithDescription("Ask the Corporation Tax assistant a question and return its answer."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to send to the assistant."),
		),
	)
}

func askQuestionHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Question string `json:"question"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		answer, err := svc.Ask(ctx, args.Question)
		switch {
		case errors.Is(err, form.ErrEmpty):
			return mcp.NewToolResultError("question is required"), nil
		case err != nil:
			return mcp.NewToolResultError(err.Error()), nil
		}
		if answer.Failed() {
			return mcp.NewToolResultError(answer.Display), nil
		}
		return mcp.NewToolResultText(answer.Display), nil
	}
}

func listHistoryTool() mcp.Tool {
	return mcp.NewTool(
		"list_history",
		mcp.WithDescription("List recently asked questions and what was displayed for them, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of exchanges to return. Defaults to 20; 0 returns all."),
		),
	)
}

func listHistoryHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 20)
		if limit < 0 {
			return mcp.NewToolResultError("limit must not be negative"), nil
		}
		exchanges := svc.Recent(ctx, limit)
		return toJSONResult(map[string]any{
			"exchanges": exchanges,
			"count":     len(exchanges),
		})
	}
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
