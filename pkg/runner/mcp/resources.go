package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerHistoryResource(srv, svc)
	registerExchangeTemplate(srv, svc)
}

func registerHistoryResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"ask://history",
		"History",
		mcp.WithResourceDescription("Every recorded question and the text displayed for it."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		exchanges := svc.Recent(ctx, 0)
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"exchanges": exchanges,
			"count":     len(exchanges),
		})
	})
}

func registerExchangeTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"ask://history/{id}",
		"Exchange",
		mcp.WithTemplateDescription("A single recorded exchange."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := argumentString(request.Params.Arguments["id"])
		if id == "" {
			return nil, fmt.Errorf("exchange id is required")
		}
		dto, err := svc.ExchangeByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"exchange": dto})
	})
}

// argumentString unwraps a URI template argument, which may arrive as a
// string or a single-element list.
func argumentString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
