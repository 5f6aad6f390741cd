package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/taabu/maoni/core/rating"
)

type responseRepository struct {
	db *DB
}

var _ rating.ResponseRepository = (*responseRepository)(nil) // interface compliance check

func NewResponseRepository(db *DB) *responseRepository {
	return &responseRepository{db: db}
}

func (repo *responseRepository) CreateResponse(ctx context.Context, resp rating.Response) (rating.Response, error) {
	repo.db.responses.mutex.Lock()
	defer repo.db.responses.mutex.Unlock()

	resp.ID = uuid.New().String()
	repo.db.responses.t[resp.ID] = &resp
	return resp, nil
}

func (repo *responseRepository) GetResponse(ctx context.Context, id string) (rating.Response, error) {
	repo.db.responses.mutex.RLock()
	defer repo.db.responses.mutex.RUnlock()

	if resp, ok := repo.db.responses.t[id]; ok {
		return *resp, nil
	}
	return rating.Response{}, rating.ErrResponseNotFound
}

func (repo *responseRepository) UpdateResponse(ctx context.Context, resp rating.Response) (rating.Response, error) {
	repo.db.responses.mutex.Lock()
	defer repo.db.responses.mutex.Unlock()

	orig, ok := repo.db.responses.t[resp.ID]
	if !ok {
		return rating.Response{}, rating.ErrResponseNotFound
	}
	orig.Comment = resp.Comment
	orig.UpdatedAt = resp.UpdatedAt
	return *orig, nil
}

func (repo *responseRepository) DeleteResponse(ctx context.Context, id string) error {
	repo.db.responses.mutex.Lock()
	defer repo.db.responses.mutex.Unlock()

	if _, ok := repo.db.responses.t[id]; !ok {
		return rating.ErrResponseNotFound
	}
	delete(repo.db.responses.t, id)
	return nil
}

func (repo *responseRepository) QueryRatingResponses(ctx context.Context, ratingIDs ...string) ([]rating.Response, error) {
	repo.db.responses.mutex.RLock()
	defer repo.db.responses.mutex.RUnlock()

	wanted := make(map[string]bool, len(ratingIDs))
	for _, id := range ratingIDs {
		wanted[id] = true
	}

	responses := make([]rating.Response, 0)
	for _, resp := range repo.db.responses.t {
		if wanted[resp.RatingID] {
			responses = append(responses, *resp)
		}
	}
	sort.Slice(responses, func(i, j int) bool { return responses[i].CreatedAt.Before(responses[j].CreatedAt) })
	return responses, nil
}
