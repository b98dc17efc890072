package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/careerbot/ai/knowledge"
	"github.com/hrygo/careerbot/internal/profile"
	"github.com/hrygo/careerbot/server"
)

func testProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p := &profile.Profile{Mode: "dev", Version: "1.2.0", Seed: 11}
	require.NoError(t, p.Validate())
	return p
}

func writeKnowledge(t *testing.T, header string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "ai", "knowledge", "careers.yaml"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "careers.yaml")
	require.NoError(t, os.WriteFile(path, append([]byte(header), data...), 0o644))
	return path
}

func TestCheckKnowledgeVersion(t *testing.T) {
	tests := []struct {
		name    string
		current string
		minimum string
		wantErr string
	}{
		{name: "no requirement", current: "1.0.0"},
		{name: "satisfied", current: "1.2.0", minimum: "1.1.0"},
		{name: "equal", current: "1.2.0", minimum: "v1.2.0"},
		{name: "too old", current: "1.0.0", minimum: "1.1.0", wantErr: "requires careerbot 1.1.0 or newer"},
		{name: "dev build", current: "0.0.0-dev", minimum: "9.0.0"},
		{name: "invalid minimum", current: "1.0.0", minimum: "latest", wantErr: "not a semantic version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkKnowledgeVersion(tt.current, &knowledge.KnowledgeBase{MinVersion: tt.minimum})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadKnowledge(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		kb, err := loadKnowledge(testProfile(t))
		require.NoError(t, err)
		assert.NotEmpty(t, kb.Roles)
	})

	t.Run("file", func(t *testing.T) {
		p := testProfile(t)
		p.KnowledgePath = writeKnowledge(t, "min_version: 1.0.0\n")
		kb, err := loadKnowledge(p)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", kb.MinVersion)
	})

	t.Run("file requires a newer binary", func(t *testing.T) {
		p := testProfile(t)
		p.KnowledgePath = writeKnowledge(t, "min_version: 2.0.0\n")
		_, err := loadKnowledge(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2.0.0")
	})

	t.Run("missing file", func(t *testing.T) {
		p := testProfile(t)
		p.KnowledgePath = filepath.Join(t.TempDir(), "missing.yaml")
		_, err := loadKnowledge(p)
		assert.Error(t, err)
	})
}

func TestRunAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("plain text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runAsk(ctx, testProfile(t), "qwzx blorp", false, &out))

		kb, err := knowledge.Default()
		require.NoError(t, err)
		assert.Equal(t, kb.Messages.GenericHelp+"\n", out.String())
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runAsk(ctx, testProfile(t), "How do I become a backend developer?", true, &out))

		var resp server.ChatResponse
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.NotEmpty(t, resp.RequestID)
		assert.EqualValues(t, "answered", resp.Outcome)
		require.NotEmpty(t, resp.Intents)
		assert.Equal(t, "career_path", resp.Intents[0].Name)
		assert.Equal(t, []string{"backend developer"}, resp.Entities["role"])
	})

	t.Run("blank message", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, runAsk(ctx, testProfile(t), "  ", false, &out))
		assert.Empty(t, out.String())
	})
}

func TestRunValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runValidate(testProfile(t), &out))

	text := out.String()
	assert.Contains(t, text, "knowledge: embedded\n")
	assert.Contains(t, text, "threshold: 3\n")
	assert.True(t, strings.HasSuffix(text, "ok\n"))
}

func TestRunChat(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("hi\nqwzx blorp\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, runChat(ctx, testProfile(t), in, &out))

	text := out.String()
	assert.Contains(t, text, "you> ")
	assert.Contains(t, text, "bot> I'm here to help with IT career advice!")
	assert.Equal(t, 2, strings.Count(text, "bot> "))
}
