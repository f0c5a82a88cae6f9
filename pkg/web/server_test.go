package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/betula/pkg/control"
	"github.com/dukex/betula/pkg/persistence/file"
	"github.com/dukex/betula/pkg/treesupport"
	"github.com/dukex/betula/pkg/web"
)

func newTestServer(t *testing.T) *web.Server {
	t.Helper()

	client, server, err := control.NewInProcessPair(nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close(); _ = server.Close() })

	go func() {
		for cmd := range server.Commands() {
			_ = server.Emit(context.Background(), control.CommandAck{CorrelationID: cmd.CorrelationID()})
		}
	}()

	repo := file.NewRepository(t.TempDir())

	return web.NewServer(client, repo, nil)
}

func TestListTreesEmpty(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	app := srv.App()

	req := httptest.NewRequest(http.MethodGet, "/trees/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body web.TreeListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Names)
}

func TestGetTreeNotFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	app := srv.App()

	req := httptest.NewRequest(http.MethodGet, "/trees/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoadTreeSavesAndDispatches(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	app := srv.App()

	doc := treesupport.Document{Version: treesupport.CurrentVersion}
	body, err := json.Marshal(doc)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/trees/patrol", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var cmdResp web.CommandResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cmdResp))
	assert.True(t, cmdResp.Ack.Ok())

	getReq := httptest.NewRequest(http.MethodGet, "/trees/patrol", nil)
	getResp, err := app.Test(getReq)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
}

