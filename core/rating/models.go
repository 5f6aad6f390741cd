package rating

import (
	"errors"
	"strings"
	"time"

	"github.com/taabu/maoni/core"
	"github.com/taabu/maoni/core/identity"
)

// Learning object release statuses.
const (
	StatusUnreleased = "unreleased"
	StatusWaiting    = "waiting"
	StatusReview     = "review"
	StatusProofing   = "proofing"
	StatusReleased   = "released"
)

// Flag concern categories.
var Concerns = []string{"accuracy", "appropriateness", "mismatch", "other"}

type (
	// ObjectRef identifies a learning object by CUID and version.
	ObjectRef struct {
		CUID    string `json:"cuid"`
		Version int    `json:"version"`
	}

	// LearningObject is the resolved state of a learning object as reported
	// by the external object service.
	LearningObject struct {
		CUID         string       `json:"cuid"`
		Version      int          `json:"version"`
		Name         string       `json:"name"`
		Author       UserSnapshot `json:"author"`
		Contributors []string     `json:"contributors"`
		Status       string       `json:"status"`
	}

	// UserSnapshot is the authoring-user info denormalized onto Rating and
	// Response records at write time. Renaming the user elsewhere does not
	// retroactively update historical records.
	UserSnapshot struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}

	Rating struct {
		ID        string       `json:"id"`
		Value     int          `json:"value"`
		Comment   string       `json:"comment"`
		User      UserSnapshot `json:"user"`
		Object    ObjectRef    `json:"object"`
		Responses []Response   `json:"responses,omitempty"`
		CreatedAt time.Time    `json:"created_at"` // UTC
		UpdatedAt time.Time    `json:"updated_at"` // UTC
	}

	// Grouping is the derived per-object aggregate: average value plus the
	// object's ratings ordered newest first, each with nested responses.
	// It is recomputed on read, never persisted.
	Grouping struct {
		AvgValue float64  `json:"avg_value"`
		Ratings  []Rating `json:"ratings"`
	}

	Flag struct {
		ID        string    `json:"id"`
		RatingID  string    `json:"rating_id"`
		Username  string    `json:"username"`
		Comment   string    `json:"comment"`
		Concern   string    `json:"concern"`
		CreatedAt time.Time `json:"created_at"` // UTC
	}

	Response struct {
		ID        string       `json:"id"`
		RatingID  string       `json:"rating_id"`
		User      UserSnapshot `json:"user"`
		Comment   string       `json:"comment"`
		CreatedAt time.Time    `json:"created_at"` // UTC
		UpdatedAt time.Time    `json:"updated_at"` // UTC
	}
)

func (lo LearningObject) Ref() ObjectRef {
	return ObjectRef{CUID: lo.CUID, Version: lo.Version}
}

func (lo LearningObject) IsReleased() bool {
	return lo.Status == StatusReleased
}

func (lo LearningObject) HasContributor(username string) bool {
	for _, contributor := range lo.Contributors {
		if contributor == username {
			return true
		}
	}
	return false
}

// FirstName returns the leading word of the snapshot's full name, falling
// back to the username. Used for email greetings.
func (u UserSnapshot) FirstName() string {
	if parts := strings.Fields(u.Name); len(parts) > 0 {
		return parts[0]
	}
	return u.Username
}

func snapshot(usr identity.UserToken) UserSnapshot {
	return UserSnapshot{Username: usr.Username, Name: usr.Name, Email: usr.Email}
}

// NewRating contains information needed to create a new Rating.
type NewRating struct {
	Value   int    `json:"value" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

func (nr *NewRating) Validate() error {
	nr.Comment = core.CleanString(nr.Comment)
	return core.Validate.Struct(nr)
}

// UpdateRating defines the fields an author may change on their Rating.
// Zero values leave the original untouched.
type UpdateRating struct {
	Value   int    `json:"value" validate:"omitempty,min=1,max=5"`
	Comment string `json:"comment"`
}

func (ur *UpdateRating) Validate() error {
	ur.Comment = core.CleanString(ur.Comment)
	// cross-field rule the tags cannot express
	if ur.Value == 0 && ur.Comment == "" {
		return core.NewValidationError(errors.New("provide a value or comment to update"))
	}
	return core.Validate.Struct(ur)
}

// NewFlag contains information needed to report a Rating.
type NewFlag struct {
	Comment string `json:"comment" validate:"required"`
	Concern string `json:"concern" validate:"required,oneof=accuracy appropriateness mismatch other"`
}

func (nf *NewFlag) Validate() error {
	nf.Comment = core.CleanString(nf.Comment)
	nf.Concern = core.CleanString(nf.Concern, true /* lower */)
	return core.Validate.Struct(nf)
}

// NewResponse contains information needed to reply to a Rating.
type NewResponse struct {
	Comment string `json:"comment" validate:"required"`
}

func (nr *NewResponse) Validate() error {
	nr.Comment = core.CleanString(nr.Comment)
	return core.Validate.Struct(nr)
}

// UpdateResponse defines what a response's author may change.
type UpdateResponse struct {
	Comment string `json:"comment" validate:"required"`
}

func (ur *UpdateResponse) Validate() error {
	ur.Comment = core.CleanString(ur.Comment)
	return core.Validate.Struct(ur)
}
