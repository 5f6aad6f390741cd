package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/taabu/maoni/core/rating"
)

type flagRepository struct {
	db *DB
}

var _ rating.FlagRepository = (*flagRepository)(nil) // interface compliance check

func NewFlagRepository(db *DB) *flagRepository {
	return &flagRepository{db: db}
}

func (repo *flagRepository) query() []rating.Flag {
	res := make([]rating.Flag, 0, len(repo.db.flags.t))
	for _, f := range repo.db.flags.t {
		res = append(res, *f)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

func (repo *flagRepository) CreateFlag(ctx context.Context, f rating.Flag) (rating.Flag, error) {
	repo.db.flags.mutex.Lock()
	defer repo.db.flags.mutex.Unlock()

	f.ID = uuid.New().String()
	repo.db.flags.t[f.ID] = &f
	return f, nil
}

func (repo *flagRepository) GetFlag(ctx context.Context, id string) (rating.Flag, error) {
	repo.db.flags.mutex.RLock()
	defer repo.db.flags.mutex.RUnlock()

	if f, ok := repo.db.flags.t[id]; ok {
		return *f, nil
	}
	return rating.Flag{}, rating.ErrFlagNotFound
}

func (repo *flagRepository) DeleteFlag(ctx context.Context, id string) error {
	repo.db.flags.mutex.Lock()
	defer repo.db.flags.mutex.Unlock()

	if _, ok := repo.db.flags.t[id]; !ok {
		return rating.ErrFlagNotFound
	}
	delete(repo.db.flags.t, id)
	return nil
}

func (repo *flagRepository) QueryAllFlags(ctx context.Context) ([]rating.Flag, error) {
	repo.db.flags.mutex.RLock()
	defer repo.db.flags.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *flagRepository) QueryUserFlags(ctx context.Context, username string) ([]rating.Flag, error) {
	repo.db.flags.mutex.RLock()
	defer repo.db.flags.mutex.RUnlock()

	flags := make([]rating.Flag, 0)
	for _, f := range repo.query() {
		if f.Username == username {
			flags = append(flags, f)
		}
	}
	return flags, nil
}

func (repo *flagRepository) QueryObjectFlags(ctx context.Context, ref rating.ObjectRef) ([]rating.Flag, error) {
	// resolve the object's rating IDs first
	repo.db.ratings.mutex.RLock()
	ratingIDs := make(map[string]bool)
	for id, r := range repo.db.ratings.t {
		if r.Object == ref {
			ratingIDs[id] = true
		}
	}
	repo.db.ratings.mutex.RUnlock()

	repo.db.flags.mutex.RLock()
	defer repo.db.flags.mutex.RUnlock()

	flags := make([]rating.Flag, 0)
	for _, f := range repo.query() {
		if ratingIDs[f.RatingID] {
			flags = append(flags, f)
		}
	}
	return flags, nil
}

func (repo *flagRepository) QueryRatingFlags(ctx context.Context, ratingID string) ([]rating.Flag, error) {
	repo.db.flags.mutex.RLock()
	defer repo.db.flags.mutex.RUnlock()

	flags := make([]rating.Flag, 0)
	for _, f := range repo.query() {
		if f.RatingID == ratingID {
			flags = append(flags, f)
		}
	}
	return flags, nil
}
