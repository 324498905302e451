package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/flowbench/pkg/domain"
)

// Dir is a directory of flow files. Actor definitions referenced by External actors
// are resolved relative to it, so Dir implements ports.DefinitionLoader.
type Dir struct {
	Root string
}

// NewDir creates a Dir. An empty root means the working directory.
func NewDir(root string) *Dir {
	if root == "" {
		root = "."
	}
	return &Dir{Root: root}
}

// Flows lists the names of the flow files at the top of the directory, sorted.
func (d *Dir) Flows() ([]string, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	var names []string
	seen := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() || !isDefinition(e.Name()) {
			continue
		}
		name := baseName(e.Name())
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Flow loads the flow file called name, with or without extension.
func (d *Dir) Flow(name string) (*domain.FlowSpec, error) {
	path, err := d.resolve(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFlowNotFound, err)
	}
	return LoadFlow(path)
}

// LoadDefinition implements ports.DefinitionLoader.
func (d *Dir) LoadDefinition(ref string) (*domain.ActorSpec, error) {
	path, err := d.resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrActorNotFound, err)
	}
	return LoadActor(path)
}

var errNoFile = errors.New("no such definition file")

// resolve finds the file of ref inside Root. Refs cannot escape Root.
func (d *Dir) resolve(ref string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", ref, d.Root)
	}

	candidates := []string{clean}
	if !isDefinition(clean) {
		candidates = candidates[:0]
		for _, ext := range Extensions {
			candidates = append(candidates, clean+ext)
		}
	}
	for _, c := range candidates {
		path := filepath.Join(d.Root, c)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errNoFile, ref)
}
