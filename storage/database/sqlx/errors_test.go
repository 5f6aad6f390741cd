package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taabu/maoni/core"
	"github.com/taabu/maoni/core/rating"
)

func Test_wrapDBErr(t *testing.T) {
	t.Run("dead connection becomes a shutdown error", func(t *testing.T) {
		err := wrapDBErr(sql.ErrConnDone, "selecting rating")
		assert.True(t, core.IsShutdown(err))
		assert.Contains(t, err.Error(), "selecting rating")

		assert.True(t, core.IsShutdown(wrapDBErr(driver.ErrBadConn, "inserting rating")))
	})

	t.Run("other failures are wrapped as-is", func(t *testing.T) {
		cause := errors.New("pq: syntax error")
		err := wrapDBErr(cause, "selecting rating")
		assert.False(t, core.IsShutdown(err))
		assert.Contains(t, err.Error(), "selecting rating")
		assert.Contains(t, err.Error(), "syntax error")
	})
}

func Test_trapNoRowsErr(t *testing.T) {
	err := trapNoRowsErr(sql.ErrNoRows, rating.ErrRatingNotFound, "selecting rating")
	assert.Equal(t, rating.ErrRatingNotFound, err)

	err = trapNoRowsErr(sql.ErrConnDone, rating.ErrRatingNotFound, "selecting rating")
	assert.True(t, core.IsShutdown(err))
}
