package file_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/persistence/file"
	"github.com/dukex/betula/pkg/treesupport"
)

func TestRepositorySaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := file.NewRepository(t.TempDir())

	doc := treesupport.Document{
		Version: treesupport.CurrentVersion,
		Nodes:   []treesupport.NodeDoc{{ID: model.NewNodeId(), Type: "sequence"}},
	}

	require.NoError(t, repo.Save(ctx, "patrol", doc))

	loaded, err := repo.Load(ctx, "patrol")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestRepositoryLoadMissingReturnsNotFound(t *testing.T) {
	t.Parallel()

	repo := file.NewRepository(t.TempDir())

	_, err := repo.Load(context.Background(), "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRepositoryListSortsNestedNames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	repo := file.NewRepository(root)

	require.NoError(t, repo.Save(ctx, "b", treesupport.Document{Version: 1}))
	require.NoError(t, repo.Save(ctx, filepath.ToSlash(filepath.Join("group", "a")), treesupport.Document{Version: 1}))

	names, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "group/a"}, names)
}

func TestRepositoryDeleteMissingReturnsNotFound(t *testing.T) {
	t.Parallel()

	repo := file.NewRepository(t.TempDir())

	err := repo.Delete(context.Background(), "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}
