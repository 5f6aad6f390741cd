package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/taabu/maoni/core/rating"
)

type ratingRepository struct {
	db *DB
}

var _ rating.Repository = (*ratingRepository)(nil) // interface compliance check

func NewRatingRepository(db *DB) *ratingRepository {
	return &ratingRepository{db: db}
}

func (repo *ratingRepository) query() []rating.Rating {
	res := make([]rating.Rating, 0, len(repo.db.ratings.t))
	for _, r := range repo.db.ratings.t {
		res = append(res, *r)
	}
	return res
}

func (repo *ratingRepository) CreateRating(ctx context.Context, r rating.Rating) (rating.Rating, error) {
	repo.db.ratings.mutex.Lock()
	defer repo.db.ratings.mutex.Unlock()

	r.ID = uuid.New().String()
	repo.db.ratings.t[r.ID] = &r
	return r, nil
}

func (repo *ratingRepository) GetRating(ctx context.Context, id string) (rating.Rating, error) {
	repo.db.ratings.mutex.RLock()
	defer repo.db.ratings.mutex.RUnlock()

	if r, ok := repo.db.ratings.t[id]; ok {
		return *r, nil
	}
	return rating.Rating{}, rating.ErrRatingNotFound
}

func (repo *ratingRepository) UpdateRating(ctx context.Context, r rating.Rating) (rating.Rating, error) {
	repo.db.ratings.mutex.Lock()
	defer repo.db.ratings.mutex.Unlock()

	orig, ok := repo.db.ratings.t[r.ID]
	if !ok {
		return rating.Rating{}, rating.ErrRatingNotFound
	}
	orig.Value = r.Value
	orig.Comment = r.Comment
	orig.UpdatedAt = r.UpdatedAt
	return *orig, nil
}

func (repo *ratingRepository) DeleteRating(ctx context.Context, id string) error {
	repo.db.ratings.mutex.Lock()
	defer repo.db.ratings.mutex.Unlock()

	if _, ok := repo.db.ratings.t[id]; !ok {
		return rating.ErrRatingNotFound
	}
	delete(repo.db.ratings.t, id)
	return nil
}

func (repo *ratingRepository) QueryObjectRatings(ctx context.Context, ref rating.ObjectRef) (rating.Grouping, error) {
	repo.db.ratings.mutex.RLock()
	ratings := make([]rating.Rating, 0)
	for _, r := range repo.query() {
		if r.Object == ref {
			ratings = append(ratings, r)
		}
	}
	repo.db.ratings.mutex.RUnlock()

	sort.Slice(ratings, func(i, j int) bool { return ratings[i].CreatedAt.After(ratings[j].CreatedAt) })

	var sum int
	for i, r := range ratings {
		sum += r.Value
		responses, err := NewResponseRepository(repo.db).QueryRatingResponses(ctx, r.ID)
		if err != nil {
			return rating.Grouping{}, err
		}
		ratings[i].Responses = responses
	}

	grouping := rating.Grouping{Ratings: ratings}
	if len(ratings) > 0 {
		grouping.AvgValue = float64(sum) / float64(len(ratings))
	}
	return grouping, nil
}

func (repo *ratingRepository) QueryUserRatings(ctx context.Context, username string) ([]rating.Rating, error) {
	repo.db.ratings.mutex.RLock()
	defer repo.db.ratings.mutex.RUnlock()

	ratings := make([]rating.Rating, 0)
	for _, r := range repo.query() {
		if r.User.Username == username {
			ratings = append(ratings, r)
		}
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].CreatedAt.After(ratings[j].CreatedAt) })
	return ratings, nil
}
