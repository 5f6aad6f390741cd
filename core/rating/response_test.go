package rating_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taabu/maoni/core/rating"
	inmemdb "github.com/taabu/maoni/storage/database/inmem"
)

type responseFixture struct {
	svc       *rating.ResponseService
	ratingSvc *rating.Service
	objects   *fakeObjectService
}

func setupResponseSvc(t *testing.T, objs ...rating.LearningObject) *responseFixture {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err)

	ratingRepo := inmemdb.NewRatingRepository(db)
	fix := &responseFixture{objects: newFakeObjectService(objs...)}
	fix.ratingSvc = rating.NewService(ratingRepo, fix.objects, &recordingNotifier{}, &recordingMailer{}, nopLogger{})
	fix.svc = rating.NewResponseService(inmemdb.NewResponseRepository(db), ratingRepo, fix.objects, nopLogger{})
	return fix
}

func (fix *responseFixture) createRating(t *testing.T, username string, obj rating.LearningObject) rating.Rating {
	t.Helper()
	r, err := fix.ratingSvc.Create(context.Background(), userTok(username), obj.Ref(), rating.NewRating{Value: 3, Comment: "okay"})
	require.NoError(t, err)
	return r
}

func TestResponseService_Create(t *testing.T) {
	ctx := context.Background()
	obj := releasedObject("abc123", 2, "carol", "dave")

	t.Run("object author may respond", func(t *testing.T) {
		fix := setupResponseSvc(t, obj)
		r := fix.createRating(t, "alice", obj)

		resp, err := fix.svc.Create(ctx, userTok("carol"), r.ID, rating.NewResponse{Comment: "thanks!"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, r.ID, resp.RatingID)
		assert.Equal(t, "carol", resp.User.Username)
		assert.Equal(t, "thanks!", resp.Comment)
	})

	t.Run("contributor may respond", func(t *testing.T) {
		fix := setupResponseSvc(t, obj)
		r := fix.createRating(t, "alice", obj)

		resp, err := fix.svc.Create(ctx, userTok("dave"), r.ID, rating.NewResponse{Comment: "noted"})
		require.NoError(t, err)
		assert.Equal(t, "dave", resp.User.Username)
	})

	t.Run("stranger may not respond", func(t *testing.T) {
		fix := setupResponseSvc(t, obj)
		r := fix.createRating(t, "alice", obj)

		_, err := fix.svc.Create(ctx, userTok("bob"), r.ID, rating.NewResponse{Comment: "nope"})
		assert.Equal(t, rating.ErrInvalidAccess, err)
	})

	t.Run("unknown rating", func(t *testing.T) {
		fix := setupResponseSvc(t, obj)

		_, err := fix.svc.Create(ctx, userTok("carol"), "missing", rating.NewResponse{Comment: "hm"})
		assert.Equal(t, rating.ErrRatingNotFound, err)
	})

	t.Run("object no longer resolvable", func(t *testing.T) {
		fix := setupResponseSvc(t, obj)
		r := fix.createRating(t, "alice", obj)
		delete(fix.objects.objects, obj.Ref())

		_, err := fix.svc.Create(ctx, userTok("carol"), r.ID, rating.NewResponse{Comment: "hm"})
		assert.Equal(t, rating.ErrObjectNotFound, err)
	})
}

func TestResponseService_Update(t *testing.T) {
	ctx := context.Background()
	obj := releasedObject("abc123", 2, "carol")

	setup := func(t *testing.T) (*responseFixture, rating.Response) {
		fix := setupResponseSvc(t, obj)
		r := fix.createRating(t, "alice", obj)
		resp, err := fix.svc.Create(ctx, userTok("carol"), r.ID, rating.NewResponse{Comment: "thanks!"})
		require.NoError(t, err)
		return fix, resp
	}

	t.Run("author updates comment", func(t *testing.T) {
		fix, resp := setup(t)

		updated, err := fix.svc.Update(ctx, userTok("carol"), resp.ID, rating.UpdateResponse{Comment: "thanks a lot!"})
		require.NoError(t, err)
		assert.Equal(t, "thanks a lot!", updated.Comment)
	})

	t.Run("only the author may edit", func(t *testing.T) {
		fix, resp := setup(t)

		_, err := fix.svc.Update(ctx, userTok("alice"), resp.ID, rating.UpdateResponse{Comment: "hijack"})
		assert.Equal(t, rating.ErrInvalidAccess, err)

		_, err = fix.svc.Update(ctx, userTok("admin", "admin"), resp.ID, rating.UpdateResponse{Comment: "hijack"})
		assert.Equal(t, rating.ErrInvalidAccess, err)
	})

	t.Run("unknown response", func(t *testing.T) {
		fix, _ := setup(t)

		_, err := fix.svc.Update(ctx, userTok("carol"), "missing", rating.UpdateResponse{Comment: "hm"})
		assert.Equal(t, rating.ErrResponseNotFound, err)
	})
}

func TestResponseService_Delete(t *testing.T) {
	ctx := context.Background()
	obj := releasedObject("abc123", 2, "carol")
	fix := setupResponseSvc(t, obj)
	r := fix.createRating(t, "alice", obj)

	resp, err := fix.svc.Create(ctx, userTok("carol"), r.ID, rating.NewResponse{Comment: "thanks!"})
	require.NoError(t, err)

	err = fix.svc.Delete(ctx, userTok("alice"), resp.ID)
	assert.Equal(t, rating.ErrInvalidAccess, err)

	require.NoError(t, fix.svc.Delete(ctx, userTok("carol"), resp.ID))

	err = fix.svc.Delete(ctx, userTok("carol"), resp.ID)
	assert.Equal(t, rating.ErrResponseNotFound, err)
}

func TestResponseService_RatingResponses(t *testing.T) {
	ctx := context.Background()
	obj := releasedObject("abc123", 2, "carol")
	fix := setupResponseSvc(t, obj)

	responses, err := fix.svc.RatingResponses(ctx, "r1")
	require.NoError(t, err)
	assert.NotNil(t, responses)
	assert.Empty(t, responses)

	r1 := fix.createRating(t, "alice", obj)
	r2 := fix.createRating(t, "bob", obj)

	_, err = fix.svc.Create(ctx, userTok("carol"), r1.ID, rating.NewResponse{Comment: "thanks!"})
	require.NoError(t, err)
	_, err = fix.svc.Create(ctx, userTok("carol"), r2.ID, rating.NewResponse{Comment: "noted"})
	require.NoError(t, err)

	responses, err = fix.svc.RatingResponses(ctx, r1.ID)
	require.NoError(t, err)
	assert.Len(t, responses, 1)

	responses, err = fix.svc.RatingResponses(ctx, r1.ID, r2.ID)
	require.NoError(t, err)
	assert.Len(t, responses, 2)
}
