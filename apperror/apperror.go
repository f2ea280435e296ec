// Package apperror defines the closed set of failure kinds the service reports
// and the error value that carries them from services to handlers.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure. Handlers pick the HTTP status from the Kind only.
type Kind int

const (
	Internal Kind = iota
	Validation
	InvalidID
	NotFound
	EmailExists
	AuthorNotFound
	PasswordUnchanged
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case InvalidID:
		return "invalid_id"
	case NotFound:
		return "not_found"
	case EmailExists:
		return "email_exists"
	case AuthorNotFound:
		return "author_not_found"
	case PasswordUnchanged:
		return "password_unchanged"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case Validation, InvalidID, EmailExists, PasswordUnchanged:
		return http.StatusBadRequest
	case NotFound, AuthorNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FieldError is a single field-level violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error type returned by services.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same kind and message,
// which lets callers compare against the package sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// New builds an error of the given kind.
func New(kind Kind, message string, fields ...FieldError) *Error {
	return &Error{Kind: kind, Message: message, Fields: fields}
}

// Wrap builds an error of the given kind around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// WithField returns a copy of e carrying a single field violation that repeats
// the error message.
func (e *Error) WithField(field string) *Error {
	c := *e
	c.Fields = []FieldError{{Field: field, Message: e.Message}}
	return &c
}

// KindOf extracts the Kind of err. Errors that are not *Error are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// NewValidation builds a Validation error carrying the field violations.
func NewValidation(fields []FieldError) *Error {
	return &Error{Kind: Validation, Message: MsgValidation, Fields: fields}
}

// Message catalog.
const (
	MsgValidation   = "Validation error"
	MsgInvalidJSON  = "Invalid JSON"
	MsgPageNotFound = "Page not found"
	MsgUnhandled    = "An unexpected error occurred"

	MsgUserNotFound      = "User not found"
	MsgEmailExists       = "A user with this email address already exists"
	MsgPasswordUnchanged = "New password cannot be the same as the old password"

	MsgUserGet    = "Failed to get users"
	MsgUserCreate = "Failed to create user"
	MsgUserUpdate = "Failed to update user"
	MsgUserDelete = "Failed to delete user"

	MsgPostNotFound      = "Post not found"
	MsgNoPostsForAuthor  = "No posts found for this user"
	MsgNoPostsForTag     = "No posts found for this tag"
	MsgAuthorNotFound    = "The specified author was not found"
	MsgInvalidAuthorID   = "Invalid author ID format"
	MsgPostGet           = "Failed to get posts"
	MsgPostGetByUser     = "Failed to get posts for user"
	MsgPostGetByTag      = "Failed to get posts for tag"
	MsgPostCreate        = "Failed to create post"
	MsgPostUpdate        = "Failed to update post"
	MsgPostDelete        = "Failed to delete post"
	MsgUserUpdated       = "User updated successfully"
	MsgPostUpdated       = "Post updated successfully"
)

// Sentinels.
var (
	ErrUserNotFound      = New(NotFound, MsgUserNotFound)
	ErrEmailExists       = New(EmailExists, MsgEmailExists)
	ErrPasswordUnchanged = New(PasswordUnchanged, MsgPasswordUnchanged)

	ErrPostNotFound     = New(NotFound, MsgPostNotFound)
	ErrNoPostsForAuthor = New(NotFound, MsgNoPostsForAuthor)
	ErrNoPostsForTag    = New(NotFound, MsgNoPostsForTag)
	ErrAuthorNotFound   = New(AuthorNotFound, MsgAuthorNotFound)
)
