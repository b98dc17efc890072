package knowledge

import (
	_ "embed"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/hrygo/careerbot/ai/configloader"
)

//go:embed careers.yaml
var defaultPayload []byte

// Default returns the knowledge base compiled into the binary.
func Default() (*KnowledgeBase, error) {
	return Parse(defaultPayload)
}

// Parse decodes and validates a YAML payload.
func Parse(data []byte) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{}
	if err := configloader.Decode(data, kb); err != nil {
		return nil, errors.Wrap(err, "failed to decode knowledge payload")
	}
	if err := kb.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid knowledge payload")
	}
	return kb, nil
}

// Load reads the payload at path. An empty path selects the embedded default.
func Load(path string) (*KnowledgeBase, error) {
	if path == "" {
		return Default()
	}

	kb := &KnowledgeBase{}
	loader := configloader.NewLoader(filepath.Dir(path))
	if err := loader.Load(filepath.Base(path), kb); err != nil {
		return nil, errors.Wrapf(err, "failed to load knowledge from %s", path)
	}
	if err := kb.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid knowledge payload %s", path)
	}
	return kb, nil
}
