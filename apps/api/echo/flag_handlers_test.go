package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taabu/maoni/core/rating"
)

func Test_flagApi_create(t *testing.T) {
	obj := releasedObject("abc123", 2, "carol")
	body := mustMarshal(t, rating.NewFlag{Comment: "this is off", Concern: "accuracy"})

	t.Run("auth required", func(t *testing.T) {
		app := newTestApp(t, obj)
		r := app.createRating(t, "alice", obj)

		rec := app.request(http.MethodPost, "/v1/ratings/"+r.ID+"/flags", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("verified email required", func(t *testing.T) {
		app := newTestApp(t, obj)
		r := app.createRating(t, "alice", obj)
		token := getToken(t, testUser("bob", false))

		rec := app.request(http.MethodPost, "/v1/ratings/"+r.ID+"/flags", token, body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("created", func(t *testing.T) {
		app := newTestApp(t, obj)
		r := app.createRating(t, "alice", obj)
		token := getToken(t, testUser("bob", true))

		rec := app.request(http.MethodPost, "/v1/ratings/"+r.ID+"/flags", token, body)
		require.Equal(t, http.StatusCreated, rec.Code)

		var f rating.Flag
		decodeJSON(t, rec, &f)
		assert.NotEmpty(t, f.ID)
		assert.Equal(t, r.ID, f.RatingID)
		assert.Equal(t, "bob", f.Username)
		assert.Equal(t, 1, app.notifier.flags)
	})

	t.Run("self-flagging forbidden", func(t *testing.T) {
		app := newTestApp(t, obj)
		r := app.createRating(t, "alice", obj)
		token := getToken(t, testUser("alice", true))

		rec := app.request(http.MethodPost, "/v1/ratings/"+r.ID+"/flags", token, body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown concern", func(t *testing.T) {
		app := newTestApp(t, obj)
		r := app.createRating(t, "alice", obj)
		token := getToken(t, testUser("bob", true))

		rec := app.request(http.MethodPost, "/v1/ratings/"+r.ID+"/flags", token,
			mustMarshal(t, rating.NewFlag{Comment: "off", Concern: "vibes"}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown rating", func(t *testing.T) {
		app := newTestApp(t, obj)
		token := getToken(t, testUser("bob", true))

		rec := app.request(http.MethodPost, "/v1/ratings/missing/flags", token, body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_flagApi_moderationQueries(t *testing.T) {
	obj := releasedObject("abc123", 2, "carol")
	app := newTestApp(t, obj)
	r := app.createRating(t, "alice", obj)

	bobToken := getToken(t, testUser("bob", true))
	rec := app.request(http.MethodPost, "/v1/ratings/"+r.ID+"/flags", bobToken,
		mustMarshal(t, rating.NewFlag{Comment: "off", Concern: "other"}))
	require.Equal(t, http.StatusCreated, rec.Code)

	adminToken := getToken(t, testUser("admin", true, "admin"))

	paths := []string{
		"/v1/flags",
		"/v1/users/bob/flags",
		"/v1/learning-objects/abc123/version/2/flags",
		"/v1/ratings/" + r.ID + "/flags",
	}
	for _, path := range paths {
		t.Run("staff only: "+path, func(t *testing.T) {
			rec := app.request(http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = app.request(http.MethodGet, path, bobToken, nil)
			assert.Equal(t, http.StatusForbidden, rec.Code)

			rec = app.request(http.MethodGet, path, adminToken, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var flags []rating.Flag
			decodeJSON(t, rec, &flags)
			assert.Len(t, flags, 1)
		})
	}

	t.Run("empty lists stay empty arrays", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/v1/users/nobody/flags", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func Test_flagApi_delete(t *testing.T) {
	obj := releasedObject("abc123", 2, "carol")
	app := newTestApp(t, obj)
	r := app.createRating(t, "alice", obj)

	bobToken := getToken(t, testUser("bob", true))
	rec := app.request(http.MethodPost, "/v1/ratings/"+r.ID+"/flags", bobToken,
		mustMarshal(t, rating.NewFlag{Comment: "off", Concern: "other"}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var f rating.Flag
	decodeJSON(t, rec, &f)

	t.Run("staff only", func(t *testing.T) {
		rec := app.request(http.MethodDelete, "/v1/flags/"+f.ID, bobToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("deleted", func(t *testing.T) {
		adminToken := getToken(t, testUser("admin", true, "admin"))

		rec := app.request(http.MethodDelete, "/v1/flags/"+f.ID, adminToken, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = app.request(http.MethodDelete, "/v1/flags/"+f.ID, adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
