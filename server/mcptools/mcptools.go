// Package mcptools exposes the career advisor as Model Context Protocol tools.
package mcptools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hrygo/careerbot/ai/careers"
	"github.com/hrygo/careerbot/ai/observability/logging"
)

// Tool names.
const (
	ToolCareerAdvice = "career_advice"
	ToolSuggestRoles = "suggest_roles"
	ToolDescribeRole = "describe_role"
)

// Tools binds MCP tool handlers to an advisor.
type Tools struct {
	advisor *careers.Advisor
}

// New returns the tool handlers for advisor.
func New(advisor *careers.Advisor) *Tools {
	return &Tools{advisor: advisor}
}

// NewServer builds an MCP server with every tool registered.
func NewServer(advisor *careers.Advisor, version string) *server.MCPServer {
	s := server.NewMCPServer("careerbot", version)
	New(advisor).Register(s)
	return s
}

// Register adds the tools to s.
func (t *Tools) Register(s *server.MCPServer) {
	advice := mcp.NewTool(ToolCareerAdvice,
		mcp.WithDescription("Answer an IT career question the way the chat bot would"),
	)
	advice.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"message": map[string]any{"type": "string", "description": "The user's question"},
		},
		Required: []string{"message"},
	}
	s.AddTool(advice, t.CareerAdvice)

	suggest := mcp.NewTool(ToolSuggestRoles,
		mcp.WithDescription("Rank IT roles by how many of the given skills they use"),
	)
	suggest.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"skills": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Technologies the user knows, e.g. python, react",
			},
		},
		Required: []string{"skills"},
	}
	s.AddTool(suggest, t.SuggestRoles)

	describe := mcp.NewTool(ToolDescribeRole,
		mcp.WithDescription("Describe one IT role: summary, skills and typical tools"),
	)
	describe.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"role": map[string]any{"type": "string", "description": "Role name, e.g. devops engineer"},
		},
		Required: []string{"role"},
	}
	s.AddTool(describe, t.DescribeRole)
}

// CareerAdvice handles the career_advice tool.
func (t *Tools) CareerAdvice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	message, _ := args["message"].(string)
	if strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("message is required"), nil
	}

	reply := t.advisor.Respond(ctx, message)
	logging.FromContext(ctx).Debug("mcp: career_advice", "outcome", string(reply.Outcome))
	return mcp.NewToolResultText(reply.Text), nil
}

// SuggestRoles handles the suggest_roles tool.
func (t *Tools) SuggestRoles(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	raw, _ := args["skills"].([]any)
	skills := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) == 0 {
		return mcp.NewToolResultError("skills must be a non-empty list of strings"), nil
	}

	text, _ := t.advisor.SuggestRoles(skills)
	return mcp.NewToolResultText(text), nil
}

// DescribeRole handles the describe_role tool.
func (t *Tools) DescribeRole(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	role, _ := args["role"].(string)
	if strings.TrimSpace(role) == "" {
		return mcp.NewToolResultError("role is required"), nil
	}

	text, found := t.advisor.DescribeRole(role)
	if !found {
		return mcp.NewToolResultError(text), nil
	}
	return mcp.NewToolResultText(text), nil
}
