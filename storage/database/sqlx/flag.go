package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taabu/maoni/core/rating"
)

type flagRow struct {
	ID        string    `db:"id"`
	RatingID  string    `db:"rating_id"`
	Username  string    `db:"username"`
	Comment   string    `db:"comment"`
	Concern   string    `db:"concern"`
	CreatedAt time.Time `db:"created_at"`
}

func (row flagRow) unrow() rating.Flag {
	return rating.Flag(row)
}

func unrowFlags(rows []flagRow) []rating.Flag {
	flags := make([]rating.Flag, 0, len(rows))
	for _, row := range rows {
		flags = append(flags, row.unrow())
	}
	return flags
}

type flagRepository struct {
	db *sqlx.DB
}

var _ rating.FlagRepository = (*flagRepository)(nil) // interface compliance check

func NewFlagRepository(db *sqlx.DB) *flagRepository {
	return &flagRepository{db: db}
}

func (repo *flagRepository) CreateFlag(ctx context.Context, f rating.Flag) (rating.Flag, error) {
	f.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO flag (id, rating_id, username, comment, concern, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.RatingID, f.Username, f.Comment, f.Concern, f.CreatedAt.UTC(),
	)
	if err != nil {
		return rating.Flag{}, wrapDBErr(err, "inserting flag")
	}
	return f, nil
}

func (repo *flagRepository) GetFlag(ctx context.Context, id string) (rating.Flag, error) {
	var row flagRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM flag WHERE id = $1`, id)
	if err != nil {
		return rating.Flag{}, trapNoRowsErr(err, rating.ErrFlagNotFound, "selecting flag")
	}
	return row.unrow(), nil
}

func (repo *flagRepository) DeleteFlag(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM flag WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(err, "deleting flag")
	}
	if n, err := res.RowsAffected(); err != nil {
		return wrapDBErr(err, "deleting flag")
	} else if n == 0 {
		return rating.ErrFlagNotFound
	}
	return nil
}

func (repo *flagRepository) QueryAllFlags(ctx context.Context) ([]rating.Flag, error) {
	var rows []flagRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM flag ORDER BY created_at DESC`)
	if err != nil {
		return nil, wrapDBErr(err, "selecting flags")
	}
	return unrowFlags(rows), nil
}

func (repo *flagRepository) QueryUserFlags(ctx context.Context, username string) ([]rating.Flag, error) {
	var rows []flagRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT * FROM flag
		WHERE username = $1
		ORDER BY created_at DESC`,
		username,
	)
	if err != nil {
		return nil, wrapDBErr(err, "selecting user flags")
	}
	return unrowFlags(rows), nil
}

func (repo *flagRepository) QueryObjectFlags(ctx context.Context, ref rating.ObjectRef) ([]rating.Flag, error) {
	var rows []flagRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT f.* FROM flag f
		JOIN rating r ON r.id = f.rating_id
		WHERE r.object_cuid = $1 AND r.object_version = $2
		ORDER BY f.created_at DESC`,
		ref.CUID, ref.Version,
	)
	if err != nil {
		return nil, wrapDBErr(err, "selecting object flags")
	}
	return unrowFlags(rows), nil
}

func (repo *flagRepository) QueryRatingFlags(ctx context.Context, ratingID string) ([]rating.Flag, error) {
	var rows []flagRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT * FROM flag
		WHERE rating_id = $1
		ORDER BY created_at DESC`,
		ratingID,
	)
	if err != nil {
		return nil, wrapDBErr(err, "selecting rating flags")
	}
	return unrowFlags(rows), nil
}
