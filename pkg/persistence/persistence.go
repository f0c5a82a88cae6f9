// Package persistence provides the storage abstraction for serialized
// tree documents, independent of runtime execution state.
package persistence

import (
	"context"

	"github.com/dukex/betula/pkg/treesupport"
)

// Repository stores and retrieves named tree documents. A name is a
// caller-chosen identifier (a project-relative path, a database key);
// the runner itself is unaware of Repository and only exchanges
// treesupport.Document values with it through the CLI/web layers.
type Repository interface {
	Save(ctx context.Context, name string, doc treesupport.Document) error
	Load(ctx context.Context, name string) (treesupport.Document, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
