// Package configloader reads YAML configuration files for the bot.
package configloader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader reads YAML files relative to a base directory.
type Loader struct {
	baseDir string
}

// NewLoader creates a new configuration loader.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		baseDir: baseDir,
	}
}

// Load reads a single YAML file and unmarshals it into target.
// Unknown fields are rejected so typos in hand-edited payloads fail at startup.
func (l *Loader) Load(subPath string, target any) error {
	data, err := l.ReadFileWithFallback(subPath)
	if err != nil {
		return fmt.Errorf("read file %s: %w", subPath, err)
	}

	if err := Decode(data, target); err != nil {
		return fmt.Errorf("unmarshal YAML %s: %w", subPath, err)
	}

	return nil
}

// Decode strictly unmarshals a YAML document into target.
func Decode(data []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(target)
}

// ReadFileWithFallback tries to read file from path relative to baseDir,
// then falls back to executable directory for production builds.
func (l *Loader) ReadFileWithFallback(path string) ([]byte, error) {
	absPath := path
	if !filepath.IsAbs(path) {
		absPath = filepath.Join(l.baseDir, path)
	}
	data, err := os.ReadFile(absPath)
	if err == nil {
		return data, nil
	}
	if filepath.IsAbs(path) {
		return nil, err
	}

	// Fallback: try relative to executable directory
	execPath, execErr := os.Executable()
	if execErr != nil {
		return nil, err
	}

	execDir := filepath.Dir(execPath)
	return os.ReadFile(filepath.Join(execDir, l.baseDir, path))
}
