package file

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/flowbench/pkg/domain"
)

// Storage implements ports.StorageBackend using the local filesystem.
// Each value is a JSON file named after the (escaped) storage name.
// Values round-trip through JSON: numbers come back as float64.
type Storage struct {
	BasePath string
}

// NewStorage creates a Storage in basePath, ".flowbench/storage" when empty.
func NewStorage(basePath string) *Storage {
	if basePath == "" {
		basePath = filepath.Join(".flowbench", "storage")
	}
	return &Storage{BasePath: basePath}
}

// path escapes name into a file name. A leading dot is escaped too, so the
// file is never hidden from Names and "." or ".." stay inside BasePath.
func (s *Storage) path(name string) string {
	escaped := url.PathEscape(name)
	if strings.HasPrefix(escaped, ".") {
		escaped = "%2E" + escaped[1:]
	}
	return filepath.Join(s.BasePath, escaped+".json")
}

// Store writes the value through a temporary file and a rename.
func (s *Storage) Store(ctx context.Context, name string, value any) error {
	if name == "" {
		return fmt.Errorf("storage name cannot be empty")
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure storage directory: %w", err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.BasePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	return nil
}

// Load reads the value back.
func (s *Storage) Load(ctx context.Context, name string) (any, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrValueNotFound
		}
		return nil, fmt.Errorf("failed to read %q: %w", name, err)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %q: %w", name, err)
	}
	return value, nil
}

// Delete removes the value file.
func (s *Storage) Delete(ctx context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %q: %w", name, err)
	}
	return nil
}

// Names lists the stored names in sorted order.
func (s *Storage) Names(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list storage: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		file := e.Name()
		if e.IsDir() || strings.HasPrefix(file, ".") || filepath.Ext(file) != ".json" {
			continue
		}
		name, err := url.PathUnescape(strings.TrimSuffix(file, ".json"))
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
