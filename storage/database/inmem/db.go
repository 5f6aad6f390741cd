package inmemdb

import (
	"sync"

	"github.com/taabu/maoni/core/rating"
)

type (
	// DB is an in-memory store used in tests and DEV mode.
	DB struct {
		ratings   *ratingTable
		flags     *flagTable
		responses *responseTable
	}

	ratingTable struct {
		t     map[string]*rating.Rating
		mutex sync.RWMutex
	}

	flagTable struct {
		t     map[string]*rating.Flag
		mutex sync.RWMutex
	}

	responseTable struct {
		t     map[string]*rating.Response
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		ratings:   &ratingTable{t: make(map[string]*rating.Rating)},
		flags:     &flagTable{t: make(map[string]*rating.Flag)},
		responses: &responseTable{t: make(map[string]*rating.Response)},
	}
	return db, nil
}
