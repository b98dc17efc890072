package mcptools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/careerbot/ai/careers"
	"github.com/hrygo/careerbot/ai/knowledge"
)

func newTestTools(t *testing.T) *Tools {
	t.Helper()
	kb, err := knowledge.Default()
	require.NoError(t, err)
	advisor, err := careers.NewAdvisor(kb, careers.Options{Random: careers.NewSeededRandom(3)})
	require.NoError(t, err)
	return New(advisor)
}

func call(name string, args any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content type %T", res.Content[0])
	return text.Text
}

func TestTools(t *testing.T) {
	tools := newTestTools(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		handler  func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args     any
		wantErr  bool
		contains string
	}{
		{
			name:     "career advice",
			handler:  tools.CareerAdvice,
			args:     map[string]any{"message": "How do I become a backend developer?"},
			contains: "Backend Developer",
		},
		{
			name:    "career advice without message",
			handler: tools.CareerAdvice,
			args:    map[string]any{"message": "  "},
			wantErr: true,
		},
		{
			name:     "suggest roles",
			handler:  tools.SuggestRoles,
			args:     map[string]any{"skills": []any{"python", "react"}},
			contains: "1. **Full Stack Developer** (2 matching skills: python, react)",
		},
		{
			name:     "suggest roles with unknown skills",
			handler:  tools.SuggestRoles,
			args:     map[string]any{"skills": []any{"cobol"}},
			contains: "cobol",
		},
		{
			name:    "suggest roles with wrong type",
			handler: tools.SuggestRoles,
			args:    map[string]any{"skills": "python"},
			wantErr: true,
		},
		{
			name:     "describe role",
			handler:  tools.DescribeRole,
			args:     map[string]any{"role": "Cloud Engineer"},
			contains: "• Platforms: aws, azure, gcp",
		},
		{
			name:     "describe unknown role",
			handler:  tools.DescribeRole,
			args:     map[string]any{"role": "astronaut"},
			wantErr:  true,
			contains: "astronaut",
		},
		{
			name:    "arguments not an object",
			handler: tools.DescribeRole,
			args:    []any{"role"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.handler(ctx, call("test", tt.args))
			require.NoError(t, err)
			assert.Equal(t, tt.wantErr, res.IsError)
			if tt.contains != "" {
				assert.Contains(t, resultText(t, res), tt.contains)
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	tools := newTestTools(t)
	s := NewServer(tools.advisor, "1.0.0")

	registered := s.ListTools()
	require.Len(t, registered, 3)
	for _, name := range []string{ToolCareerAdvice, ToolSuggestRoles, ToolDescribeRole} {
		assert.Contains(t, registered, name)
	}
}
