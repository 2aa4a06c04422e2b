package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"projecttracker/internal/handler"
	"projecttracker/internal/model"
	"projecttracker/internal/procedure"
	"projecttracker/pkg/config"
)

type emptyStore struct{}

func (emptyStore) List(context.Context) ([]model.Task, error) { return []model.Task{}, nil }
func (emptyStore) ListWithProjects(context.Context) ([]model.TaskWithProject, error) {
	return []model.TaskWithProject{}, nil
}
func (emptyStore) FindByID(context.Context, int) (*model.Task, error) { return nil, errors.New("unused") }
func (emptyStore) Create(context.Context, *model.Task) error          { return nil }
func (emptyStore) Save(context.Context, *model.Task) error            { return nil }

func (emptyStore) DeleteTask(context.Context, int) (procedure.Result[model.Task], error) {
	return procedure.Result[model.Task]{}, nil
}
func (emptyStore) SelectTask(context.Context, int) (procedure.Result[model.Task], error) {
	return procedure.Result[model.Task]{Rows: []model.Task{}}, nil
}
func (emptyStore) SelectProjects(context.Context) (procedure.Result[model.Project], error) {
	return procedure.Result[model.Project]{Rows: []model.Project{}}, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func newRouter(cfg config.ServerConfig, db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	return NewRouter(
		handler.NewTaskHandler(emptyStore{}, emptyStore{}, log),
		handler.NewProjectHandler(emptyStore{}, log),
		cfg,
		log,
		db,
	)
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndReadiness(t *testing.T) {
	r := newRouter(config.ServerConfig{}, pinger{})

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodHead, "/health", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/readyz", nil)).Code)

	down := newRouter(config.ServerConfig{}, pinger{err: errors.New("no route to host")})
	w := serve(down, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "no route to host")
}

func TestRoutesAreWired(t *testing.T) {
	r := newRouter(config.ServerConfig{}, pinger{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/tasks"},
		{http.MethodGet, "/tasks/projects"},
		{http.MethodGet, "/projects"},
		{http.MethodDelete, "/task/1"},
		{http.MethodGet, "/metrics"},
	} {
		w := serve(r, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	r := newRouter(config.ServerConfig{}, pinger{})

	req := httptest.NewRequest(http.MethodOptions, "/task", nil)
	req.Header.Set("Origin", "https://ui.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := serve(r, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)

	get := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	get.Header.Set("Origin", "http://localhost:3000")
	assert.Equal(t, "*", serve(r, get).Header().Get("Access-Control-Allow-Origin"))
}

func TestTraceIDHeader(t *testing.T) {
	r := newRouter(config.ServerConfig{}, pinger{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Trace-ID", "trace-abc")
	assert.Equal(t, "trace-abc", serve(r, req).Header().Get("X-Trace-ID"))

	generated := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Header().Get("X-Trace-ID")
	assert.NotEmpty(t, generated)
}

func TestHTTPSRedirect(t *testing.T) {
	r := newRouter(config.ServerConfig{HTTPSRedirect: true}, pinger{})

	req := httptest.NewRequest(http.MethodGet, "http://tracker.example.org/tasks?x=1", nil)
	req.Header.Set("X-Forwarded-Proto", "http")
	w := serve(r, req)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "https://tracker.example.org/tasks?x=1", w.Header().Get("Location"))

	secure := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	secure.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, http.StatusOK, serve(r, secure).Code)
}

func TestOpenAPIDescribesEveryRoute(t *testing.T) {
	r := newRouter(config.ServerConfig{}, pinger{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))

	var doc struct {
		Paths map[string]map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(w.Body.Bytes(), &doc))

	for path, methods := range map[string][]string{
		"/tasks":          {"get"},
		"/tasks/projects": {"get"},
		"/task":           {"post", "put"},
		"/task/{id}":      {"delete"},
		"/projects":       {"get"},
	} {
		require.Contains(t, doc.Paths, path)
		for _, m := range methods {
			assert.Contains(t, doc.Paths[path], m, path)
		}
	}
}
