package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so the transport layer can pick a status code.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindAuth
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is the single error type services hand back to callers.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }
func Auth(msg string) *Error { return &Error{Kind: KindAuth, Message: msg} }
func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of err, treating anything that is not an *Error as internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrUnauthenticated    = Auth("User not authenticated")
	ErrInvalidCredentials = Auth("Invalid email or password")
	ErrInvalidSession     = Auth("Invalid or expired session")
	ErrFarmAccessDenied   = Forbidden("You do not have access to this farm")

	ErrInvalidPagination   = Validation("Limit and offset must be valid integers")
	ErrInvalidResetToken   = Validation("Invalid or expired reset token")
	ErrInvalidVerifyToken  = Validation("Invalid or expired verification token")
	ErrEmailAlreadyInUse   = Validation("Email already registered")
	ErrHutchOccupied       = Validation("Cannot delete an occupied hutch")
	ErrHutchNotAvailable   = Validation("Hutch not found or already occupied")
	ErrInvalidBreedingPair = Validation("Breeding requires an active female doe and an active male buck")
	ErrDuplicateRabbitTag  = Validation("A rabbit with this tag already exists on the farm")
	ErrUnknownRabbit       = Validation("rabbit_id must reference a rabbit of this farm")

	ErrUserNotFound     = NotFound("User not found")
	ErrFarmNotFound     = NotFound("Farm not found")
	ErrHutchNotFound    = NotFound("Hutch not found")
	ErrRabbitNotFound   = NotFound("Rabbit not found")
	ErrBreedingNotFound = NotFound("Breeding record not found")
	ErrKitNotFound      = NotFound("Kit record not found")
	ErrEarningNotFound  = NotFound("Earnings record not found")

	ErrInternal = Internal("internal server error", nil)
)
