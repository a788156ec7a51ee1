package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownUser      = errors.New("user does not exist")
	ErrSelfVote         = errors.New("you cannot vote for yourself")
	ErrBotTarget        = errors.New("you cannot vote for bots")
	ErrPointBudget      = errors.New("you must give out exactly 3 points in total")
	ErrPointsOutOfRange = errors.New("points must be between 0 and 3")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrNoPermission     = errors.New("user has no permission for this action")
	ErrInternal         = errors.New("internal server error")
)

// Form fields a ValidationError can be attached to.
const (
	FieldSelectUser = "select_user"
	FieldComment    = "comment"
)

// ValidationError rejects a vote submission. Field names the form input the
// message should be shown next to.
type ValidationError struct {
	Field string
	Err   error
}

func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Message is the human readable rejection reason.
func (e *ValidationError) Message() string {
	msg := e.Err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "!"
}
