// Package file provides a filesystem-backed persistence.Repository: one
// JSON file per tree document under a root directory.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dukex/betula/pkg/persistence"
	"github.com/dukex/betula/pkg/treesupport"
)

const extension = ".tree.json"

// Repository implements persistence.Repository against a directory tree,
// matching the project directory convention documents live under.
type Repository struct {
	root string
}

func NewRepository(root string) *Repository {
	return &Repository{root: strings.TrimPrefix(root, "file://")}
}

func (r *Repository) path(name string) string {
	return filepath.Join(r.root, filepath.FromSlash(name)+extension)
}

func (r *Repository) Save(_ context.Context, name string, doc treesupport.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	path := r.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func (r *Repository) Load(_ context.Context, name string) (treesupport.Document, error) {
	data, err := os.ReadFile(r.path(name))
	if os.IsNotExist(err) {
		return treesupport.Document{}, persistence.NewNotFound("Load", name)
	}

	if err != nil {
		return treesupport.Document{}, err
	}

	var doc treesupport.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return treesupport.Document{}, err
	}

	return doc, nil
}

func (r *Repository) List(_ context.Context) ([]string, error) {
	var names []string

	err := filepath.WalkDir(r.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}

			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, extension) {
			return nil
		}

		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			return err
		}

		names = append(names, filepath.ToSlash(strings.TrimSuffix(rel, extension)))

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)

	return names, nil
}

func (r *Repository) Delete(_ context.Context, name string) error {
	err := os.Remove(r.path(name))
	if os.IsNotExist(err) {
		return persistence.NewNotFound("Delete", name)
	}

	return err
}

func (r *Repository) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(r.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (r *Repository) Close(context.Context) error { return nil }
