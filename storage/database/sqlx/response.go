package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/taabu/maoni/core/rating"
)

type responseRow struct {
	ID        string      `db:"id"`
	RatingID  string      `db:"rating_id"`
	Username  string      `db:"username"`
	UserName  null.String `db:"user_name"`
	UserEmail null.String `db:"user_email"`
	Comment   string      `db:"comment"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (row responseRow) unrow() rating.Response {
	return rating.Response{
		ID:       row.ID,
		RatingID: row.RatingID,
		User: rating.UserSnapshot{
			Username: row.Username,
			Name:     row.UserName.String,
			Email:    row.UserEmail.String,
		},
		Comment:   row.Comment,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type responseRepository struct {
	db *sqlx.DB
}

var _ rating.ResponseRepository = (*responseRepository)(nil) // interface compliance check

func NewResponseRepository(db *sqlx.DB) *responseRepository {
	return &responseRepository{db: db}
}

func (repo *responseRepository) CreateResponse(ctx context.Context, resp rating.Response) (rating.Response, error) {
	resp.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO response (id, rating_id, username, user_name, user_email, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		resp.ID, resp.RatingID, resp.User.Username,
		null.NewString(resp.User.Name, resp.User.Name != ""), null.NewString(resp.User.Email, resp.User.Email != ""),
		resp.Comment, resp.CreatedAt.UTC(), resp.UpdatedAt.UTC(),
	)
	if err != nil {
		return rating.Response{}, wrapDBErr(err, "inserting response")
	}
	return resp, nil
}

func (repo *responseRepository) GetResponse(ctx context.Context, id string) (rating.Response, error) {
	var row responseRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM response WHERE id = $1`, id)
	if err != nil {
		return rating.Response{}, trapNoRowsErr(err, rating.ErrResponseNotFound, "selecting response")
	}
	return row.unrow(), nil
}

func (repo *responseRepository) UpdateResponse(ctx context.Context, resp rating.Response) (rating.Response, error) {
	var row responseRow
	err := repo.db.GetContext(ctx, &row, `
		UPDATE response SET comment = $2, updated_at = $3
		WHERE id = $1
		RETURNING *`,
		resp.ID, resp.Comment, resp.UpdatedAt.UTC(),
	)
	if err != nil {
		return rating.Response{}, trapNoRowsErr(err, rating.ErrResponseNotFound, "updating response")
	}
	return row.unrow(), nil
}

func (repo *responseRepository) DeleteResponse(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM response WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(err, "deleting response")
	}
	if n, err := res.RowsAffected(); err != nil {
		return wrapDBErr(err, "deleting response")
	} else if n == 0 {
		return rating.ErrResponseNotFound
	}
	return nil
}

func (repo *responseRepository) QueryRatingResponses(ctx context.Context, ratingIDs ...string) ([]rating.Response, error) {
	if len(ratingIDs) == 0 {
		return []rating.Response{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM response WHERE rating_id IN (?) ORDER BY created_at ASC`, ratingIDs)
	if err != nil {
		return nil, errors.Wrap(err, "building response query")
	}

	var rows []responseRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, wrapDBErr(err, "selecting rating responses")
	}

	responses := make([]rating.Response, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, row.unrow())
	}
	return responses, nil
}
