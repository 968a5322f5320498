package internal

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ficor/internal/apperr"
	"github.com/starford/ficor/internal/tagset"
)

// Op selects the operation a run performs.
type Op string

// Operations.
const (
	OpInit      Op = "init"
	OpAdd       Op = "add"
	OpRemove    Op = "remove"
	OpAddTag    Op = "add-tag"
	OpRemoveTag Op = "remove-tag"
	OpList      Op = "list"
	OpDump      Op = "dump"
)

// Mutates reports whether the store has to be saved after op.
func (op Op) Mutates() bool {
	switch op {
	case OpAdd, OpRemove, OpAddTag, OpRemoveTag:
		return true
	}
	return false
}

// Request is the parsed command line handed to Run.
type Request struct {
	Op Op
	// Path is the decorated file for add, remove, add-tag and remove-tag.
	Path string
	// Tags is the tag expression for add and remove-tag.
	Tags string
	// Info is nil when no info was given.
	Info *string
	// Tag is the single tag for add-tag.
	Tag     string
	Include string
	Exclude string

	ShowInfo bool
	ShowTags bool
}

var errRequired = errors.New("is required")

// Validate checks that the companion values op needs are present.
func (r *Request) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Op, validation.Required, validation.In(
			OpInit, OpAdd, OpRemove, OpAddTag, OpRemoveTag, OpList, OpDump,
		)),
		validation.Field(&r.Path, validation.When(r.needsPath(), validation.Required)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrArgument, err)
	}
	switch {
	case r.Op == OpAddTag && r.Tag == "":
		return fmt.Errorf("%w: tag %w for %s", apperr.ErrMissingArgument, errRequired, r.Op)
	case r.Op == OpRemoveTag && len(tagset.Parse(r.Tags)) == 0:
		return fmt.Errorf("%w: tag expression %w for %s", apperr.ErrMissingArgument, errRequired, r.Op)
	}
	return nil
}

func (r *Request) needsPath() bool {
	switch r.Op {
	case OpAdd, OpRemove, OpAddTag, OpRemoveTag:
		return true
	}
	return false
}
