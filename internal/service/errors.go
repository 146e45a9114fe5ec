package service

import (
	"errors"
	"fmt"
)

// Domain errors. Their messages are shown to API clients as-is.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrBadCredentials    = errors.New("invalid username or password")
	ErrUnauthenticated   = errors.New("login required")
	ErrForbidden         = errors.New("administrator privileges required")
	ErrBoardNotFound     = errors.New("board not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category name already exists")
	ErrSurveyNotFound    = errors.New("survey not found")
)

// ValidationError reports a request field the caller got wrong.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// IsDomain reports whether err is one of the errors above, as opposed to a
// store or infrastructure failure.
func IsDomain(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, d := range []error{
		ErrDuplicateUsername, ErrBadCredentials, ErrUnauthenticated, ErrForbidden,
		ErrBoardNotFound, ErrCategoryNotFound, ErrDuplicateCategory,
		ErrSurveyNotFound,
	} {
		if errors.Is(err, d) {
			return true
		}
	}
	return false
}
