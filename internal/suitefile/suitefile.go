// Package suitefile reads test suites from TOML or YAML files
package suitefile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"gitlab.com/codepad.net/internal/domain"
)

// Suite is the on-disk form of a custom question
type Suite struct {
	LanguageID int               `toml:"language_id" yaml:"language_id"`
	Cases      []domain.TestCase `toml:"cases" yaml:"cases"`
}

// Load decodes the suite at path, choosing the format by extension
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return DecodeTOML(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported suite file extension %q", ext)
	}
}

func DecodeTOML(data []byte) (*Suite, error) {
	var suite Suite
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to decode toml suite: %w", err)
	}
	return &suite, nil
}

func DecodeYAML(data []byte) (*Suite, error) {
	var suite Suite
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to decode yaml suite: %w", err)
	}
	return &suite, nil
}
