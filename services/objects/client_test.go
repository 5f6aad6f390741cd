package objectsvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taabu/maoni/core"
	"github.com/taabu/maoni/core/rating"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestService(t *testing.T, handler http.HandlerFunc) (*httpService, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &core.Config{}
	conf.Objects.URL = srv.URL
	conf.Objects.APIKey = "sekrit"
	conf.Objects.Timeout = 2 * time.Second

	svc, err := NewHTTPService(conf, nopLogger{})
	require.NoError(t, err)
	return svc, srv
}

func TestHTTPService_GetLearningObject(t *testing.T) {
	ctx := context.Background()
	ref := rating.ObjectRef{CUID: "abc123", Version: 2}

	t.Run("ok", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/learning-objects/abc123/version/2", r.URL.Path)
			assert.Equal(t, "sekrit", r.Header.Get("X-API-Key"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"cuid": "abc123",
				"version": 2,
				"name": "Intro to Widgets",
				"author": {"username": "carol", "name": "Carol Test", "email": "carol@test.cd"},
				"contributors": ["dave"],
				"status": "released"
			}`))
		})

		obj, err := svc.GetLearningObject(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, "abc123", obj.CUID)
		assert.Equal(t, 2, obj.Version)
		assert.Equal(t, "Intro to Widgets", obj.Name)
		assert.Equal(t, "carol", obj.Author.Username)
		assert.Equal(t, "carol@test.cd", obj.Author.Email)
		assert.Equal(t, []string{"dave"}, obj.Contributors)
		assert.True(t, obj.IsReleased())
	})

	t.Run("not found", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := svc.GetLearningObject(ctx, ref)
		assert.Equal(t, rating.ErrObjectNotFound, err)
	})

	t.Run("server error", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := svc.GetLearningObject(ctx, ref)
		require.Error(t, err)
		assert.NotEqual(t, rating.ErrObjectNotFound, err)
	})

	t.Run("malformed payload", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{`))
		})

		_, err := svc.GetLearningObject(ctx, ref)
		require.Error(t, err)
	})
}
