package paramconv

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the resolver.
// Use with errors.Is() for checking; the typed errors below carry the details.
var (
	// ErrNotFound indicates that no document was resolved for a required declaration,
	// or that the repository reported a lookup failure.
	ErrNotFound = errors.New("object not found")

	// ErrGuessFailure indicates that neither the identifier nor the criteria strategy
	// applied to the request and the declaration is not optional.
	ErrGuessFailure = errors.New("unable to determine how to resolve an instance from the request")

	// ErrMissingArgument indicates that signature binding could not satisfy a
	// required finder parameter.
	ErrMissingArgument = errors.New("missing finder argument")

	// ErrUnknownClass is returned by document managers when a class has no mapping.
	ErrUnknownClass = errors.New("no mapping for class")

	// ErrUnknownMethod indicates repository_method names a finder the repository
	// does not provide.
	ErrUnknownMethod = errors.New("unknown repository method")

	// ErrInvalidOption indicates a recognized option key holds a value of the wrong type.
	ErrInvalidOption = errors.New("invalid converter option")
)

// NotFoundError is returned by Apply when resolution produced nothing for a
// required declaration. Code carries the repository status when the miss was
// reported by the repository layer.
type NotFoundError struct {
	Class string
	Code  int
	Err   error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s object not found: %v", e.Class, e.Err)
	}
	return fmt.Sprintf("%s object not found", e.Class)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Is reports ErrNotFound so callers can match without errors.As.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// MissingArgumentError names the finder parameter that could not be bound.
type MissingArgumentError struct {
	Repository string
	Method     string
	Param      string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("repository method %q requires that you provide a value for the %q argument",
		e.Repository+"::"+e.Method, e.Param)
}

func (e *MissingArgumentError) Is(target error) bool { return target == ErrMissingArgument }

// ResponseError is the failure a repository returns when the backing store
// answered a lookup with an error status. The resolver translates it into a
// NotFoundError and keeps Code.
type ResponseError struct {
	Code    int
	Message string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("repository response error (code %d)", e.Code)
	}
	return fmt.Sprintf("repository response error (code %d): %s", e.Code, e.Message)
}
