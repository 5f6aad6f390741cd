package rating

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/taabu/maoni/core"
	"github.com/taabu/maoni/core/identity"
)

type (
	// FlagRepository is the persistence contract for Flag records.
	FlagRepository interface {
		CreateFlag(ctx context.Context, f Flag) (Flag, error)
		GetFlag(ctx context.Context, id string) (Flag, error)
		DeleteFlag(ctx context.Context, id string) error
		QueryAllFlags(ctx context.Context) ([]Flag, error)
		QueryUserFlags(ctx context.Context, username string) ([]Flag, error)
		QueryObjectFlags(ctx context.Context, ref ObjectRef) ([]Flag, error)
		QueryRatingFlags(ctx context.Context, ratingID string) ([]Flag, error)
	}

	// FlagService orchestrates moderation flags against ratings.
	FlagService struct {
		repo     FlagRepository
		ratings  Repository
		objects  ObjectService
		notifier Notifier
		logger   core.Logger
	}
)

func NewFlagService(
	repo FlagRepository,
	ratings Repository,
	objects ObjectService,
	notifier Notifier,
	logger core.Logger,
) *FlagService {
	return &FlagService{
		repo:     repo,
		ratings:  ratings,
		objects:  objects,
		notifier: notifier,
		logger:   logger,
	}
}

func (svc *FlagService) internal(err error, msg string) error {
	if core.IsShutdown(err) {
		return pkgerrors.Wrap(err, msg)
	}
	svc.logger.Error(msg, pkgerrors.Wrap(err, msg))
	return ErrInternal
}

// Flag reports a rating. A rating's own author cannot flag it.
// The chat notification is best-effort and never fails the call.
func (svc *FlagService) Flag(ctx context.Context, usr identity.UserToken, ratingID string, nf NewFlag) (Flag, error) {
	r, err := svc.ratings.GetRating(ctx, ratingID)
	if err != nil {
		if pkgerrors.Cause(err) == ErrRatingNotFound {
			return Flag{}, ErrRatingNotFound
		}
		return Flag{}, svc.internal(err, "finding rating")
	}
	if !CanFlag(usr, r) {
		return Flag{}, ErrInvalidAccess
	}

	f := Flag{
		RatingID:  r.ID,
		Username:  usr.Username,
		Comment:   nf.Comment,
		Concern:   nf.Concern,
		CreatedAt: time.Now().UTC(),
	}
	f, err = svc.repo.CreateFlag(ctx, f)
	if err != nil {
		return Flag{}, svc.internal(err, "creating flag")
	}

	svc.notifyFlag(ctx, f, r)
	return f, nil
}

func (svc *FlagService) notifyFlag(ctx context.Context, f Flag, r Rating) {
	obj, err := svc.objects.GetLearningObject(ctx, r.Object)
	if err != nil {
		svc.logger.Error("resolving learning object for flag notification",
			pkgerrors.Wrap(err, "resolving learning object for flag notification"))
		return
	}
	err = svc.notifier.SendFlagNotification(ctx, FlagNotification{
		Username:      f.Username,
		RatingComment: r.Comment,
		ObjectName:    obj.Name,
		ObjectAuthor:  obj.Author.Username,
	})
	if err != nil {
		svc.logger.Error("sending flag notification", pkgerrors.Wrap(err, "sending flag notification"))
	}
}

// All lists every flag. An empty store yields an empty slice, never an error.
func (svc *FlagService) All(ctx context.Context) ([]Flag, error) {
	flags, err := svc.repo.QueryAllFlags(ctx)
	if err != nil {
		return nil, svc.internal(err, "querying flags")
	}
	return emptyIfNil(flags), nil
}

// UserFlags lists flags reported by username.
func (svc *FlagService) UserFlags(ctx context.Context, username string) ([]Flag, error) {
	flags, err := svc.repo.QueryUserFlags(ctx, core.CleanString(username, true /* lower */))
	if err != nil {
		return nil, svc.internal(err, "querying user flags")
	}
	return emptyIfNil(flags), nil
}

// ObjectFlags lists flags against any rating of a learning object.
func (svc *FlagService) ObjectFlags(ctx context.Context, ref ObjectRef) ([]Flag, error) {
	flags, err := svc.repo.QueryObjectFlags(ctx, ref)
	if err != nil {
		return nil, svc.internal(err, "querying object flags")
	}
	return emptyIfNil(flags), nil
}

// RatingFlags lists flags against a single rating.
func (svc *FlagService) RatingFlags(ctx context.Context, ratingID string) ([]Flag, error) {
	flags, err := svc.repo.QueryRatingFlags(ctx, ratingID)
	if err != nil {
		return nil, svc.internal(err, "querying rating flags")
	}
	return emptyIfNil(flags), nil
}

// Delete removes a flag. Administrative-only: the privilege check is
// enforced by the calling layer.
func (svc *FlagService) Delete(ctx context.Context, id string) error {
	if err := svc.repo.DeleteFlag(ctx, id); err != nil {
		if pkgerrors.Cause(err) == ErrFlagNotFound {
			return ErrFlagNotFound
		}
		return svc.internal(err, "deleting flag")
	}
	return nil
}

func emptyIfNil(flags []Flag) []Flag {
	if flags == nil {
		return []Flag{}
	}
	return flags
}
