package echoapi

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taabu/maoni/core"
)

func Test_errorHandler_internalErrors(t *testing.T) {
	obj := releasedObject("abc123", 2, "carol")
	path := "/v1/learning-objects/abc123/version/2/ratings"

	t.Run("unexpected failure yields an opaque 500", func(t *testing.T) {
		app := newTestApp(t, obj)
		app.objects.err = errors.New("pq: connection refused")

		rec := app.request(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var got errMsg
		decodeJSON(t, rec, &got)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), got.Error)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("shutdown error stops the server", func(t *testing.T) {
		app := newTestApp(t, obj)
		app.objects.err = core.NewShutdownError("database connection gone")

		rec := app.request(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "database connection gone")

		select {
		case <-app.server.ShutdownSignal():
		case <-time.After(time.Second):
			t.Fatal("no shutdown signal received")
		}
	})
}
