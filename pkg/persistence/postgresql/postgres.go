// Package postgresql provides a PostgreSQL-backed persistence.Repository:
// tree documents stored as JSONB blobs keyed by name.
package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sirupsen/logrus"

	// registers the "postgres" driver used by sql.Open below.
	_ "github.com/lib/pq"

	"github.com/dukex/betula/pkg/persistence"
	"github.com/dukex/betula/pkg/persistence/sqlbase"
	"github.com/dukex/betula/pkg/treesupport"
)

// Repository implements persistence.Repository against a PostgreSQL
// database, one row per named tree document.
type Repository struct {
	db     *sql.DB
	logger *logrus.Entry
}

// New opens databaseURL, runs pending migrations and returns a ready
// Repository.
func New(ctx context.Context, logger *logrus.Logger, databaseURL string) (*Repository, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	entry := logger.WithField("component", "postgresql")

	manager := sqlbase.NewMigrationManager(slog.Default(), db, migrations())
	if err := manager.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Repository{db: db, logger: entry}, nil
}

func (r *Repository) Save(ctx context.Context, name string, doc treesupport.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tree_documents (name, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()
	`, name, data)

	return err
}

func (r *Repository) Load(ctx context.Context, name string) (treesupport.Document, error) {
	var data []byte

	err := r.db.QueryRowContext(ctx, `SELECT document FROM tree_documents WHERE name = $1`, name).Scan(&data)
	if err == sql.ErrNoRows {
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

func (r *Repository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM tree_documents ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tree_documents WHERE name = $1`, name)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return persistence.NewNotFound("Delete", name)
	}

	return nil
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close(context.Context) error {
	return r.db.Close()
}
