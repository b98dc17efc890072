package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.yaml"), []byte("name: demo\nitems: [a, b]\n"), 0o600))

	var got sample
	err := NewLoader(dir).Load("sample.yaml", &got)
	require.NoError(t, err)
	assert.Equal(t, "demo", got.Name)
	assert.Equal(t, []string{"a", "b"}, got.Items)
}

func TestLoader_AbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: abs\n"), 0o600))

	var got sample
	require.NoError(t, NewLoader("ignored").Load(path, &got))
	assert.Equal(t, "abs", got.Name)
}

func TestLoader_MissingFile(t *testing.T) {
	var got sample
	err := NewLoader(t.TempDir()).Load("nope.yaml", &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read file nope.yaml")
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	var got sample
	err := Decode([]byte("name: x\nunexpected: 1\n"), &got)
	assert.Error(t, err)
}
