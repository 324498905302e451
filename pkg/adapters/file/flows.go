// Package file reads flow and actor definitions from YAML or JSON files and
// persists storage values as JSON files.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/flowbench/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Extensions lists the recognized definition file extensions, in lookup order.
var Extensions = []string{".yaml", ".yml", ".json"}

// LoadFlow reads a flow file. The format follows the extension; anything but
// ".json" is parsed as YAML. A flow without a name is named after the file.
func LoadFlow(path string) (*domain.FlowSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow: %w", err)
	}

	var spec domain.FlowSpec
	if err := decode(path, data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse flow %s: %w", filepath.Base(path), err)
	}
	if spec.Name == "" {
		spec.Name = baseName(path)
	}
	return &spec, nil
}

// LoadActor reads a single actor definition.
func LoadActor(path string) (*domain.ActorSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrActorNotFound, path)
		}
		return nil, fmt.Errorf("failed to read actor definition: %w", err)
	}

	var spec domain.ActorSpec
	if err := decode(path, data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse actor definition %s: %w", filepath.Base(path), err)
	}
	if spec.Type == "" {
		return nil, fmt.Errorf("actor definition %s has no type", filepath.Base(path))
	}
	if spec.Name == "" {
		spec.Name = baseName(path)
	}
	return &spec, nil
}

func decode(path string, data []byte, v any) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isDefinition(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
