package statements

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAdmin is returned when an upload carries no operator identity.
var ErrMissingAdmin = errors.New("Admin ID Missing")

// MissingIdentityError means the sheet does not belong to the claimed bank.
type MissingIdentityError struct {
	Bank    string
	Missing []string
}

func (e *MissingIdentityError) Error() string {
	return "Missing required bank detail(s): " + strings.Join(e.Missing, ", ")
}

// MissingColumnsError means the header row lacks required data columns.
type MissingColumnsError struct {
	Bank    string
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("Missing required columns for Bank %s: %s", e.Bank, strings.Join(e.Missing, ", "))
}

// BadFileError covers empty uploads and wrong file types.
type BadFileError struct {
	Reason string
}

func (e *BadFileError) Error() string {
	return e.Reason
}

// ParseError wraps an unreadable spreadsheet or an unexpected sheet shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// PersistError wraps a store failure. The transaction has been rolled back
// by the time it is returned.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err should be answered with a client error.
func IsValidation(err error) bool {
	var (
		identity *MissingIdentityError
		columns  *MissingColumnsError
		badFile  *BadFileError
	)
	return errors.Is(err, ErrMissingAdmin) ||
		errors.As(err, &identity) ||
		errors.As(err, &columns) ||
		errors.As(err, &badFile)
}

func parseErrorf(format string, args ...any) error {
	return &ParseError{Err: fmt.Errorf(format, args...)}
}
