package mcp

import (
	"context"
	"fmt"
	"net/http"

	sigmodel "sigscope/internal/model/signature"
	"sigscope/internal/service/signature"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

type SignatureServer struct {
	server   *mcp.Server
	resolver *signature.Resolver
	registry *signature.Registry
	logger   *zap.Logger
	handler  *mcp.StreamableHTTPHandler
}

type ResolveSignatureParams struct {
	Source string `json:"source" jsonschema:"the full source text of the function or class"`
	Name   string `json:"name,omitempty" jsonschema:"runtime name used when the source declares none"`
}

type CallableSignatureParams struct {
	ID string `json:"id" jsonschema:"the id returned when the callable was registered"`
}

func NewSignatureServer(svc *signature.Service, logger *zap.Logger) *SignatureServer {
	server := &SignatureServer{
		resolver: svc.Resolver,
		registry: svc.Registry,
		logger:   logger,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "sigscope",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "resolveSignature",
		Description: "Derive the normalized signature (function name(params) or class Name(params)) of a JavaScript or TypeScript function or class from its source text",
	}, server.handleResolveSignature)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "getCallableSignature",
		Description: "Retrieve the signature of a callable registered through the HTTP API, honoring any override attached to it",
	}, server.handleCallableSignature)

	server.handler = mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	server.server = mcpServer
	return server
}

func (s *SignatureServer) handleResolveSignature(ctx context.Context, req *mcp.CallToolRequest, args ResolveSignatureParams) (*mcp.CallToolResult, any, error) {
	s.logger.Info("Handling resolveSignature request", zap.String("name", args.Name), zap.Int("source_length", len(args.Source)))

	sig := s.resolver.Resolve(&sigmodel.Function{FuncName: args.Name, Text: args.Source})
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: sig}},
	}, nil, nil
}

func (s *SignatureServer) handleCallableSignature(ctx context.Context, req *mcp.CallToolRequest, args CallableSignatureParams) (*mcp.CallToolResult, any, error) {
	s.logger.Info("Handling getCallableSignature request", zap.String("id", args.ID))

	sig, err := s.registry.Signature(args.ID)
	if err != nil {
		s.logger.Error("Failed to resolve callable signature", zap.String("id", args.ID), zap.Error(err))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Failed to resolve signature: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: sig}},
	}, nil, nil
}

// SetupHTTPRoutes mounts the streamable MCP transport at /mcp
func (s *SignatureServer) SetupHTTPRoutes(router *gin.Engine) {
	router.Any("/mcp", gin.WrapH(s.handler))
}
