package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when the input parameters are invalid
	ErrInvalidInput = errors.New("invalid input parameters")

	// ErrMissingData is returned when a required field of the user record is absent
	ErrMissingData = errors.New("required profile data missing")

	// ErrRateLimit is returned when GitHub API rate limit is exceeded
	ErrRateLimit = errors.New("github api rate limit exceeded")

	// ErrGitHubAPI is returned when GitHub API returns an error
	ErrGitHubAPI = errors.New("github api error")

	// ErrDatabase is returned when a database operation fails
	ErrDatabase = errors.New("database error")

	// ErrUnauthorized is returned when authentication fails
	ErrUnauthorized = errors.New("unauthorized")

	// ErrHistoryDisabled is returned when an operation needs the database but none is configured
	ErrHistoryDisabled = errors.New("analysis history storage is disabled")
)

// MissingDataError reports required profile fields that were absent
type MissingDataError struct {
	Username string
	Fields   []string
}

func (e *MissingDataError) Error() string {
	if e.Username == "" {
		return fmt.Sprintf("missing required profile data: %s", strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("missing required profile data for %s: %s", e.Username, strings.Join(e.Fields, ", "))
}

func (e *MissingDataError) Unwrap() error {
	return ErrMissingData
}

// NewMissingDataError creates a new MissingDataError
func NewMissingDataError(username string, fields ...string) error {
	return &MissingDataError{
		Username: username,
		Fields:   fields,
	}
}

// ValidationError represents a rejected username or profile URL
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(input, reason string) error {
	return &ValidationError{
		Input:  input,
		Reason: reason,
	}
}

// DatabaseError represents a database operation error
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database operation %s failed: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() []error {
	return []error{ErrDatabase, e.Err}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(op string, err error) error {
	return &DatabaseError{
		Op:  op,
		Err: err,
	}
}

// GitHubError represents a GitHub API error
type GitHubError struct {
	Op      string
	Request string
	Err     error
}

func (e *GitHubError) Error() string {
	return fmt.Sprintf("github api operation %s failed for request %s: %v", e.Op, e.Request, e.Err)
}

func (e *GitHubError) Unwrap() error {
	return e.Err
}

// NewGitHubError creates a new GitHubError
func NewGitHubError(op, request string, err error) error {
	return &GitHubError{
		Op:      op,
		Request: request,
		Err:     err,
	}
}

// Is checks if the target error matches any of our custom errors
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
