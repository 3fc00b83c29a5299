package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// ErrorKind classifies a domain error. Each kind maps to exactly one HTTP status.
type ErrorKind uint8

const (
	KindInternal ErrorKind = iota
	KindAuthentication
	KindPermission
	KindValidation
	KindDuplicateState
	KindMissingState
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "AuthenticationRequired"
	case KindPermission:
		return "PermissionDenied"
	case KindValidation:
		return "ValidationError"
	case KindDuplicateState:
		return "DuplicateStateError"
	case KindMissingState:
		return "MissingStateError"
	case KindNotFound:
		return "NotFound"
	default:
		return "InternalError"
	}
}

// NonFieldErrors is the field key used for validation errors that are not tied to a single input field.
const NonFieldErrors = "non_field_errors"

// Error is a request-local error carrying a user-facing message.
// Fields is set for field-keyed validation errors.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
			parts = append(parts, field+": "+strings.Join(e.Fields[field], ", "))
		}
		return strings.Join(parts, "; ")
	}
	return e.Kind.String()
}

// Is matches on kind only, so errors.Is(err, ErrNotFound) holds for any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = &Error{Kind: KindInternal, Message: "Internal server error."}
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = &Error{Kind: KindNotFound, Message: "Not found."}
	// ErrUnauthorized will throw if the request carries no valid credentials
	ErrUnauthorized = &Error{Kind: KindAuthentication, Message: "Authentication credentials were not provided."}
	// ErrForbidden will throw if the actor is not allowed to touch the resource
	ErrForbidden = &Error{Kind: KindPermission, Message: "You do not have permission to perform this action."}
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = &Error{Kind: KindValidation, Message: "Given param is not valid."}
	ErrDuplicateState = &Error{Kind: KindDuplicateState, Message: "Already exists."}
	ErrMissingState   = &Error{Kind: KindMissingState, Message: "Nothing to remove."}
)

// Store level signals for edge tables. Usecases translate them into user-facing errors.
var (
	ErrEdgeExists  = errors.New("edge already exists")
	ErrEdgeMissing = errors.New("edge does not exist")
)

func NewPermissionError(msg string) *Error {
	return &Error{Kind: KindPermission, Message: msg}
}

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewDuplicateStateError(msg string) *Error {
	return &Error{Kind: KindDuplicateState, Message: msg}
}

func NewMissingStateError(msg string) *Error {
	return &Error{Kind: KindMissingState, Message: msg}
}

// NewFieldError builds a field-keyed validation error.
func NewFieldError(field string, msgs ...string) *Error {
	return &Error{Kind: KindValidation, Fields: map[string][]string{field: msgs}}
}

// FieldErrors accumulates field-keyed validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Err returns nil when nothing was added.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Fields: f}
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
