package rating

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/taabu/maoni/core"
	"github.com/taabu/maoni/core/identity"
)

var (
	// errors
	ErrRatingNotFound   = errors.New("rating not found")
	ErrFlagNotFound     = errors.New("flag not found")
	ErrResponseNotFound = errors.New("response not found")
	ErrObjectNotFound   = errors.New("learning object not found")
	ErrInvalidAccess    = errors.New("invalid access")
	ErrInternal         = errors.New("internal error")
)

// IsNotFound reports whether err is one of the package's NotFound sentinels.
func IsNotFound(err error) bool {
	switch pkgerrors.Cause(err) {
	case ErrRatingNotFound, ErrFlagNotFound, ErrResponseNotFound, ErrObjectNotFound:
		return true
	}
	return false
}

type (
	// Repository is the persistence contract for Rating records.
	Repository interface {
		CreateRating(ctx context.Context, r Rating) (Rating, error)
		GetRating(ctx context.Context, id string) (Rating, error)
		UpdateRating(ctx context.Context, r Rating) (Rating, error)
		DeleteRating(ctx context.Context, id string) error
		// QueryObjectRatings computes the Grouping for a learning object:
		// average value plus ratings ordered newest first, with responses.
		QueryObjectRatings(ctx context.Context, ref ObjectRef) (Grouping, error)
		QueryUserRatings(ctx context.Context, username string) ([]Rating, error)
	}

	// ObjectService resolves a learning object's current state
	// (author, contributors, release status).
	ObjectService interface {
		GetLearningObject(ctx context.Context, ref ObjectRef) (LearningObject, error)
	}

	RatingNotification struct {
		RatingAuthor  string
		RatingComment string
		ObjectCUID    string
		ObjectAuthor  string
	}

	FlagNotification struct {
		Username      string
		RatingComment string
		ObjectName    string
		ObjectAuthor  string
	}

	// Notifier posts chat-channel notifications. Failures are best-effort:
	// callers log and discard them.
	Notifier interface {
		SendRatingNotification(ctx context.Context, n RatingNotification) error
		SendFlagNotification(ctx context.Context, n FlagNotification) error
	}

	// Service orchestrates rating operations. It is a stateless coordinator:
	// no mutable fields beyond the injected collaborator handles.
	Service struct {
		repo     Repository
		objects  ObjectService
		notifier Notifier
		mailSvc  core.EmailService
		logger   core.Logger
	}
)

func NewService(
	repo Repository,
	objects ObjectService,
	notifier Notifier,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		objects:  objects,
		notifier: notifier,
		mailSvc:  mailSvc,
		logger:   logger,
	}
}

// internal reports an unexpected collaborator failure and hides its detail
// behind ErrInternal. Expected domain errors never pass through here.
// Shutdown errors are returned as-is so the transport layer can stop the
// server; it reports them itself.
func (svc *Service) internal(err error, msg string) error {
	if core.IsShutdown(err) {
		return pkgerrors.Wrap(err, msg)
	}
	svc.logger.Error(msg, pkgerrors.Wrap(err, msg))
	return ErrInternal
}

func (svc *Service) resolveObject(ctx context.Context, ref ObjectRef) (LearningObject, error) {
	obj, err := svc.objects.GetLearningObject(ctx, ref)
	if err != nil {
		if pkgerrors.Cause(err) == ErrObjectNotFound {
			return LearningObject{}, ErrObjectNotFound
		}
		return LearningObject{}, svc.internal(err, "resolving learning object")
	}
	return obj, nil
}

// Create persists a new rating for usr against the referenced learning
// object, then fires the chat notification and the "new rating" email to the
// object's author. Both side effects are best-effort: their failures are
// logged and never surfaced to the caller.
func (svc *Service) Create(ctx context.Context, usr identity.UserToken, ref ObjectRef, nr NewRating) (Rating, error) {
	obj, err := svc.resolveObject(ctx, ref)
	if err != nil {
		return Rating{}, err
	}
	if !CanRate(usr, obj) {
		return Rating{}, ErrInvalidAccess
	}
	if !obj.IsReleased() {
		// ratings cannot be attached to in-review or unreleased objects
		return Rating{}, ErrInvalidAccess
	}

	now := time.Now().UTC()
	r := Rating{
		Value:     nr.Value,
		Comment:   nr.Comment,
		User:      snapshot(usr),
		Object:    obj.Ref(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r, err = svc.repo.CreateRating(ctx, r)
	if err != nil {
		return Rating{}, svc.internal(err, "creating rating")
	}

	svc.notifyNewRating(ctx, r, obj)
	svc.mailObjectAuthor(ctx, r, obj)
	return r, nil
}

func (svc *Service) notifyNewRating(ctx context.Context, r Rating, obj LearningObject) {
	err := svc.notifier.SendRatingNotification(ctx, RatingNotification{
		RatingAuthor:  r.User.Username,
		RatingComment: r.Comment,
		ObjectCUID:    obj.CUID,
		ObjectAuthor:  obj.Author.Username,
	})
	if err != nil {
		svc.logger.Error("sending rating notification", pkgerrors.Wrap(err, "sending rating notification"))
	}
}

func (svc *Service) mailObjectAuthor(ctx context.Context, r Rating, obj LearningObject) {
	grouping, err := svc.repo.QueryObjectRatings(ctx, r.Object)
	if err != nil {
		svc.logger.Error("computing rating average", pkgerrors.Wrap(err, "computing rating average"))
		return
	}
	svc.mailSvc.SendMessages(newRatingEmail(obj, grouping.AvgValue))
}

type newRatingEmailData struct {
	FirstName string
	Username  string
	CUID      string
	Name      string
	AvgValue  float64
}

func newRatingEmail(obj LearningObject, avgValue float64) *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: obj.Author.Name, Address: obj.Author.Email}},
		Subject:      fmt.Sprintf("%q received a new rating", obj.Name),
		TemplateName: "new_rating",
		TemplateData: newRatingEmailData{
			FirstName: obj.Author.FirstName(),
			Username:  obj.Author.Username,
			CUID:      obj.CUID,
			Name:      obj.Name,
			AvgValue:  avgValue,
		},
	}
}

// Get fetches a single rating.
func (svc *Service) Get(ctx context.Context, id string) (Rating, error) {
	r, err := svc.repo.GetRating(ctx, id)
	if err != nil {
		if pkgerrors.Cause(err) == ErrRatingNotFound {
			return Rating{}, ErrRatingNotFound
		}
		return Rating{}, svc.internal(err, "finding rating")
	}
	return r, nil
}

// Update applies a partial update (value/comment only) to usr's own rating.
// Editing is frozen unless the backing learning object is released,
// mirroring the create-time invariant.
func (svc *Service) Update(ctx context.Context, usr identity.UserToken, id string, ur UpdateRating) (Rating, error) {
	r, err := svc.Get(ctx, id)
	if err != nil {
		return Rating{}, err
	}
	if !CanEditRating(usr, r) {
		return Rating{}, ErrInvalidAccess
	}

	obj, err := svc.resolveObject(ctx, r.Object)
	if err != nil {
		return Rating{}, err
	}
	if !obj.IsReleased() {
		return Rating{}, ErrInvalidAccess
	}

	if ur.Value != 0 {
		r.Value = ur.Value
	}
	if ur.Comment != "" {
		r.Comment = ur.Comment
	}
	r.UpdatedAt = time.Now().UTC()

	r, err = svc.repo.UpdateRating(ctx, r)
	if err != nil {
		if pkgerrors.Cause(err) == ErrRatingNotFound {
			return Rating{}, ErrRatingNotFound
		}
		return Rating{}, svc.internal(err, "updating rating")
	}
	return r, nil
}

// Delete removes a rating. The author and admins/editors may delete at any
// time; deletion is not gated on release status.
func (svc *Service) Delete(ctx context.Context, usr identity.UserToken, id string) error {
	r, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanDeleteRating(usr, r) {
		return ErrInvalidAccess
	}

	if _, err = svc.resolveObject(ctx, r.Object); err != nil {
		return err
	}

	if err = svc.repo.DeleteRating(ctx, r.ID); err != nil {
		if pkgerrors.Cause(err) == ErrRatingNotFound {
			return ErrRatingNotFound
		}
		return svc.internal(err, "deleting rating")
	}
	return nil
}

// ObjectRatings returns the grouped aggregate for a learning object.
func (svc *Service) ObjectRatings(ctx context.Context, ref ObjectRef) (Grouping, error) {
	if _, err := svc.resolveObject(ctx, ref); err != nil {
		return Grouping{}, err
	}
	grouping, err := svc.repo.QueryObjectRatings(ctx, ref)
	if err != nil {
		return Grouping{}, svc.internal(err, "querying object ratings")
	}
	return grouping, nil
}

// UserRatings lists all ratings authored by username. Access control
// (staff or the user themself) is enforced by the calling layer.
func (svc *Service) UserRatings(ctx context.Context, username string) ([]Rating, error) {
	ratings, err := svc.repo.QueryUserRatings(ctx, core.CleanString(username, true /* lower */))
	if err != nil {
		return nil, svc.internal(err, "querying user ratings")
	}
	if ratings == nil {
		ratings = []Rating{}
	}
	return ratings, nil
}
