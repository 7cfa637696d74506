package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/tripgen/am"
	"github.com/teranos/tripgen/db"
	"github.com/teranos/tripgen/errors"
	qntxtest "github.com/teranos/tripgen/internal/testing"
	"github.com/teranos/tripgen/project"
	"github.com/teranos/tripgen/typegen"
)

const tariffTask = `{
	"scenarios": [{
		"name": "Tariff Test",
		"triplets": [{"subject": "user", "relationship": "pay", "object": {"name": "tariff", "values": ["simple"]}}]
	}],
	"generationPackage": "io.github.kruchon",
	"implementationPackage": "test.package"
}`

func testConfig(t *testing.T) *am.Config {
	t.Helper()
	return am.Defaults()
}

func newTestServer(t *testing.T, cfg *am.Config) *Server {
	log := zaptest.NewLogger(t).Sugar()
	store := project.NewStore(qntxtest.CreateTestDB(t), log)
	return New(cfg, project.NewService(store, cfg.Generation.FileExtension, log), log)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, testConfig(t)), http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestSyncTask(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	rec := do(t, srv, http.MethodPost, "/api/processor/sync/task", tariffTask)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decode[typegen.Result](t, rec)
	assert.Equal(t, []string{"User.kt", "Tariff.kt", "TariffTest.kt"}, result.Names())
	user, _ := result.Lookup("User.kt")
	assert.Contains(t, user.Content, "infix fun pay(tariff: Tariff)")
}

func TestSyncTask_DefaultPackages(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generation.DeclarationsPackage = "com.example.api"
	srv := newTestServer(t, cfg)

	rec := do(t, srv, http.MethodPost, "/api/processor/sync/task",
		`{"scenarios":[{"name":"T","triplets":[{"subject":"a","relationship":"b","object":{"name":"c"}}]}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decode[typegen.Result](t, rec)
	c, ok := result.Lookup("C.kt")
	require.True(t, ok)
	assert.Contains(t, c.Content, "package com.example.api")
}

func TestSyncTask_Errors(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", `{"scenarios":`, http.StatusBadRequest},
		{"unknown field", `{"scenario": []}`, http.StatusBadRequest},
		{"empty subject", `{"scenarios":[{"name":"T","triplets":[{"subject":"","relationship":"b","object":{"name":"c"}}]}]}`, http.StatusBadRequest},
		{"missing object", `{"scenarios":[{"name":"T","triplets":[{"subject":"a","relationship":"b"}]}]}`, http.StatusBadRequest},
		{"file collision", `{"scenarios":[{"name":"C","triplets":[{"subject":"a","relationship":"b","object":{"name":"c"}}]}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/processor/sync/task", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestProjectLifecycle(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	rec := do(t, srv, http.MethodPost, "/api/configurator/project", `{"name":"billing"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[project.Project](t, rec)
	assert.Equal(t, am.DefaultDeclarationsPackage, created.DeclarationsPackage)
	base := "/api/configurator/project/" + created.ID

	rec = do(t, srv, http.MethodGet, "/api/configurator/project", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]project.Project](t, rec), 1)

	rec = do(t, srv, http.MethodPost, base+"/scenario",
		`{"name":"Tariff Test","triplets":[{"subject":"user","relationship":"pay","object":{"name":"tariff","values":["simple"]}}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, decode[project.Project](t, rec).Scenarios, 1)

	rec = do(t, srv, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "billing", decode[project.Project](t, rec).Name)

	rec = do(t, srv, http.MethodPost, base+"/process-sync", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	processed := decode[typegen.Result](t, rec)
	assert.Equal(t, []string{"User.kt", "Tariff.kt", "TariffTest.kt"}, processed.Names())

	rec = do(t, srv, http.MethodGet, base+"/sources", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[typegen.Result](t, rec).Files, 3)
}

func TestProjectErrors(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"get unknown", http.MethodGet, "/api/configurator/project/missing", "", http.StatusNotFound},
		{"process unknown", http.MethodPost, "/api/configurator/project/missing/process-sync", "", http.StatusNotFound},
		{"sources unknown", http.MethodGet, "/api/configurator/project/missing/sources", "", http.StatusNotFound},
		{"scenario unknown", http.MethodPost, "/api/configurator/project/missing/scenario", `{"name":"s","triplets":[]}`, http.StatusNotFound},
		{"create without name", http.MethodPost, "/api/configurator/project", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", errors.NewNotFoundError("project %q", "p"), http.StatusNotFound},
		{"invalid request", errors.NewInvalidRequestError("no name"), http.StatusBadRequest},
		{"malformed tree", errors.Malformedf("cycle"), http.StatusBadRequest},
		{"collision", errors.Collisionf("class Order"), http.StatusBadRequest},
		{"closed database", errors.Wrap(db.ErrDatabaseClosed, "list projects"), http.StatusServiceUnavailable},
		{"closed driver", errors.Wrap(errors.New("sql: database is closed"), "list projects"), http.StatusServiceUnavailable},
		{"render failure", errors.Wrap(errors.ErrRenderFailed, "Test.kt"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}

func TestDatabaseClosed(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()
	conn := qntxtest.CreateTestDB(t)
	cfg := testConfig(t)
	srv := New(cfg, project.NewService(project.NewStore(conn, log), cfg.Generation.FileExtension, log), log)

	require.NoError(t, conn.Close())

	rec := do(t, srv, http.MethodGet, "/api/configurator/project", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.RequestsPerSecond = 0.001
	cfg.Server.Burst = 2
	srv := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		rec := do(t, srv, http.MethodGet, "/api/configurator/project", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, srv, http.MethodGet, "/api/configurator/project", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// health is outside the limited group
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/health", "").Code)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
