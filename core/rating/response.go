package rating

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/taabu/maoni/core"
	"github.com/taabu/maoni/core/identity"
)

type (
	// ResponseRepository is the persistence contract for Response records.
	ResponseRepository interface {
		CreateResponse(ctx context.Context, resp Response) (Response, error)
		GetResponse(ctx context.Context, id string) (Response, error)
		UpdateResponse(ctx context.Context, resp Response) (Response, error)
		DeleteResponse(ctx context.Context, id string) error
		QueryRatingResponses(ctx context.Context, ratingIDs ...string) ([]Response, error)
	}

	// ResponseService orchestrates author/contributor responses to ratings.
	ResponseService struct {
		repo    ResponseRepository
		ratings Repository
		objects ObjectService
		logger  core.Logger
	}
)

func NewResponseService(
	repo ResponseRepository,
	ratings Repository,
	objects ObjectService,
	logger core.Logger,
) *ResponseService {
	return &ResponseService{
		repo:    repo,
		ratings: ratings,
		objects: objects,
		logger:  logger,
	}
}

func (svc *ResponseService) internal(err error, msg string) error {
	if core.IsShutdown(err) {
		return pkgerrors.Wrap(err, msg)
	}
	svc.logger.Error(msg, pkgerrors.Wrap(err, msg))
	return ErrInternal
}

func (svc *ResponseService) getRating(ctx context.Context, id string) (Rating, error) {
	r, err := svc.ratings.GetRating(ctx, id)
	if err != nil {
		if pkgerrors.Cause(err) == ErrRatingNotFound {
			return Rating{}, ErrRatingNotFound
		}
		return Rating{}, svc.internal(err, "finding rating")
	}
	return r, nil
}

func (svc *ResponseService) getResponse(ctx context.Context, id string) (Response, error) {
	resp, err := svc.repo.GetResponse(ctx, id)
	if err != nil {
		if pkgerrors.Cause(err) == ErrResponseNotFound {
			return Response{}, ErrResponseNotFound
		}
		return Response{}, svc.internal(err, "finding response")
	}
	return resp, nil
}

// Create persists a reply to a rating. Only the rated learning object's
// author or a listed contributor may respond.
func (svc *ResponseService) Create(ctx context.Context, usr identity.UserToken, ratingID string, nr NewResponse) (Response, error) {
	r, err := svc.getRating(ctx, ratingID)
	if err != nil {
		return Response{}, err
	}

	obj, err := svc.objects.GetLearningObject(ctx, r.Object)
	if err != nil {
		if pkgerrors.Cause(err) == ErrObjectNotFound {
			return Response{}, ErrObjectNotFound
		}
		return Response{}, svc.internal(err, "resolving learning object")
	}
	if !CanRespond(usr, obj) {
		return Response{}, ErrInvalidAccess
	}

	now := time.Now().UTC()
	resp := Response{
		RatingID:  r.ID,
		User:      snapshot(usr),
		Comment:   nr.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	resp, err = svc.repo.CreateResponse(ctx, resp)
	if err != nil {
		return Response{}, svc.internal(err, "creating response")
	}
	return resp, nil
}

// Update lets a response's author change its comment.
func (svc *ResponseService) Update(ctx context.Context, usr identity.UserToken, id string, ur UpdateResponse) (Response, error) {
	resp, err := svc.getResponse(ctx, id)
	if err != nil {
		return Response{}, err
	}
	if !CanEditResponse(usr, resp) {
		return Response{}, ErrInvalidAccess
	}

	resp.Comment = ur.Comment
	resp.UpdatedAt = time.Now().UTC()

	resp, err = svc.repo.UpdateResponse(ctx, resp)
	if err != nil {
		if pkgerrors.Cause(err) == ErrResponseNotFound {
			return Response{}, ErrResponseNotFound
		}
		return Response{}, svc.internal(err, "updating response")
	}
	return resp, nil
}

// Delete lets a response's author remove it.
func (svc *ResponseService) Delete(ctx context.Context, usr identity.UserToken, id string) error {
	resp, err := svc.getResponse(ctx, id)
	if err != nil {
		return err
	}
	if !CanEditResponse(usr, resp) {
		return ErrInvalidAccess
	}

	if err = svc.repo.DeleteResponse(ctx, resp.ID); err != nil {
		if pkgerrors.Cause(err) == ErrResponseNotFound {
			return ErrResponseNotFound
		}
		return svc.internal(err, "deleting response")
	}
	return nil
}

// RatingResponses lists the responses to one or more ratings.
// No matches yields an empty slice, never an error.
func (svc *ResponseService) RatingResponses(ctx context.Context, ratingIDs ...string) ([]Response, error) {
	responses, err := svc.repo.QueryRatingResponses(ctx, ratingIDs...)
	if err != nil {
		return nil, svc.internal(err, "querying rating responses")
	}
	if responses == nil {
		responses = []Response{}
	}
	return responses, nil
}
