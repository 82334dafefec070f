// Package errs holds the typed errors shared by the config, registry and CLI layers.
// Every error here formats identically through Error, String and fmt verbs.
package errs

import (
	"fmt"
	"strings"
)

const (
	defaultObjectMessage = "object is not valid"
	defaultPathMessage   = "path is not valid"
)

// InvalidObjectError reports a value that cannot be used where it was supplied
type InvalidObjectError struct {
	Object  any
	Message string
}

// NewInvalidObjectError builds an InvalidObjectError; an empty message falls back to the default
func NewInvalidObjectError(object any, message string) *InvalidObjectError {
	return &InvalidObjectError{Object: object, Message: message}
}

func (e *InvalidObjectError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultObjectMessage
	}
	return fmt.Sprintf("InvalidObjectError: %s (object: %#v)", msg, e.Object)
}

func (e *InvalidObjectError) String() string { return e.Error() }

// InvalidPathError reports a path (file path or object path) that does not resolve
type InvalidPathError struct {
	Path    []string
	Message string
}

// NewInvalidPathError builds an InvalidPathError from the path segments
func NewInvalidPathError(message string, path ...string) *InvalidPathError {
	return &InvalidPathError{Path: path, Message: message}
}

func (e *InvalidPathError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultPathMessage
	}
	return fmt.Sprintf("InvalidPathError: %s (path: %s)", msg, strings.Join(e.Path, "."))
}

func (e *InvalidPathError) String() string { return e.Error() }
