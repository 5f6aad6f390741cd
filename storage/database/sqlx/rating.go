package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/taabu/maoni/core"
	"github.com/taabu/maoni/core/rating"
)

type ratingRow struct {
	ID            string      `db:"id"`
	Value         int         `db:"value"`
	Comment       string      `db:"comment"`
	Username      string      `db:"username"`
	UserName      null.String `db:"user_name"`
	UserEmail     null.String `db:"user_email"`
	ObjectCUID    string      `db:"object_cuid"`
	ObjectVersion int         `db:"object_version"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func (row ratingRow) unrow() rating.Rating {
	return rating.Rating{
		ID:      row.ID,
		Value:   row.Value,
		Comment: row.Comment,
		User: rating.UserSnapshot{
			Username: row.Username,
			Name:     row.UserName.String,
			Email:    row.UserEmail.String,
		},
		Object:    rating.ObjectRef{CUID: row.ObjectCUID, Version: row.ObjectVersion},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func unrowRatings(rows []ratingRow) []rating.Rating {
	ratings := make([]rating.Rating, 0, len(rows))
	for _, row := range rows {
		ratings = append(ratings, row.unrow())
	}
	return ratings
}

type ratingRepository struct {
	db *sqlx.DB
}

var _ rating.Repository = (*ratingRepository)(nil) // interface compliance check

func NewRatingRepository(db *sqlx.DB) *ratingRepository {
	return &ratingRepository{db: db}
}

// wrapDBErr classifies a database failure: a dead connection becomes a
// shutdown error so the server stops taking traffic; anything else is
// wrapped as-is.
func wrapDBErr(err error, msg string) error {
	if err == sql.ErrConnDone || err == driver.ErrBadConn {
		return core.NewShutdownError(msg + ": " + err.Error())
	}
	return errors.Wrap(err, msg)
}

// trapNoRowsErr maps psql "no rows" err to the domain NotFound sentinel.
func trapNoRowsErr(err error, sentinel error, msg string) error {
	if err == sql.ErrNoRows {
		return sentinel
	}
	return wrapDBErr(err, msg)
}

func (repo *ratingRepository) CreateRating(ctx context.Context, r rating.Rating) (rating.Rating, error) {
	r.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO rating (id, value, comment, username, user_name, user_email, object_cuid, object_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, r.Value, r.Comment, r.User.Username,
		null.NewString(r.User.Name, r.User.Name != ""), null.NewString(r.User.Email, r.User.Email != ""),
		r.Object.CUID, r.Object.Version, r.CreatedAt.UTC(), r.UpdatedAt.UTC(),
	)
	if err != nil {
		return rating.Rating{}, wrapDBErr(err, "inserting rating")
	}
	return r, nil
}

func (repo *ratingRepository) GetRating(ctx context.Context, id string) (rating.Rating, error) {
	var row ratingRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM rating WHERE id = $1`, id)
	if err != nil {
		return rating.Rating{}, trapNoRowsErr(err, rating.ErrRatingNotFound, "selecting rating")
	}
	return row.unrow(), nil
}

func (repo *ratingRepository) UpdateRating(ctx context.Context, r rating.Rating) (rating.Rating, error) {
	var row ratingRow
	err := repo.db.GetContext(ctx, &row, `
		UPDATE rating SET value = $2, comment = $3, updated_at = $4
		WHERE id = $1
		RETURNING *`,
		r.ID, r.Value, r.Comment, r.UpdatedAt.UTC(),
	)
	if err != nil {
		return rating.Rating{}, trapNoRowsErr(err, rating.ErrRatingNotFound, "updating rating")
	}
	return row.unrow(), nil
}

func (repo *ratingRepository) DeleteRating(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM rating WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(err, "deleting rating")
	}
	if n, err := res.RowsAffected(); err != nil {
		return wrapDBErr(err, "deleting rating")
	} else if n == 0 {
		return rating.ErrRatingNotFound
	}
	return nil
}

func (repo *ratingRepository) QueryObjectRatings(ctx context.Context, ref rating.ObjectRef) (rating.Grouping, error) {
	var avg float64
	err := repo.db.GetContext(ctx, &avg, `
		SELECT COALESCE(AVG(value), 0)::float8
		FROM rating
		WHERE object_cuid = $1 AND object_version = $2`,
		ref.CUID, ref.Version,
	)
	if err != nil {
		return rating.Grouping{}, wrapDBErr(err, "aggregating ratings")
	}

	var rows []ratingRow
	err = repo.db.SelectContext(ctx, &rows, `
		SELECT * FROM rating
		WHERE object_cuid = $1 AND object_version = $2
		ORDER BY created_at DESC`,
		ref.CUID, ref.Version,
	)
	if err != nil {
		return rating.Grouping{}, wrapDBErr(err, "selecting object ratings")
	}

	ratings := unrowRatings(rows)
	if len(ratings) > 0 {
		ids := make([]string, 0, len(ratings))
		for _, r := range ratings {
			ids = append(ids, r.ID)
		}
		responses, err := NewResponseRepository(repo.db).QueryRatingResponses(ctx, ids...)
		if err != nil {
			return rating.Grouping{}, err
		}
		byRating := make(map[string][]rating.Response, len(ratings))
		for _, resp := range responses {
			byRating[resp.RatingID] = append(byRating[resp.RatingID], resp)
		}
		for i, r := range ratings {
			ratings[i].Responses = byRating[r.ID]
		}
	}

	return rating.Grouping{AvgValue: avg, Ratings: ratings}, nil
}

func (repo *ratingRepository) QueryUserRatings(ctx context.Context, username string) ([]rating.Rating, error) {
	var rows []ratingRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT * FROM rating
		WHERE username = $1
		ORDER BY created_at DESC`,
		username,
	)
	if err != nil {
		return nil, wrapDBErr(err, "selecting user ratings")
	}
	return unrowRatings(rows), nil
}
