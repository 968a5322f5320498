// Package apperr holds the error taxonomy shared by every ficor package.
package apperr

import "errors"

var (
	// ErrIO wraps failures opening, reading, or writing the store file.
	ErrIO = errors.New("i/o error")
	// ErrFormat marks store content that is not a valid encoding.
	ErrFormat = errors.New("format error")

	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrMissingArgument = errors.New("missing argument")
	ErrArgument        = errors.New("invalid argument")
)
