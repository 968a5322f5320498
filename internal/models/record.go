// Package models defines the domain types for ficor.
package models

import (
	"errors"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ficor/internal/tagset"
)

// MaxFieldLen is the longest string a record field may hold. Every length
// on disk is a uint32 that counts the trailing NUL.
const MaxFieldLen = math.MaxUint32 - 1

// Record is the metadata attached to one decorated file.
type Record struct {
	Path string
	// Info is nil when absent, which is distinct from an empty string.
	Info *string
	Tags tagset.TagSet
}

// HasInfo reports whether an info string is attached.
func (r *Record) HasInfo() bool {
	return r.Info != nil
}

// InfoOr returns the info string, or def when absent.
func (r *Record) InfoOr(def string) string {
	if r.Info == nil {
		return def
	}
	return *r.Info
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := Record{Path: r.Path, Tags: r.Tags.Clone()}
	if r.Info != nil {
		info := *r.Info
		out.Info = &info
	}
	return out
}

// Validate checks the constraints the on-disk format imposes.
func (r *Record) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Path, validation.Required, validation.By(encodable)),
		validation.Field(&r.Info, validation.By(encodable)),
		validation.Field(&r.Tags, validation.Each(validation.Required, validation.By(encodable))),
	)
}

var (
	errNullByte = errors.New("must not contain a null byte")
	errTooLong  = errors.New("is too long to encode")
)

func encodable(value any) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return nil
	}
	if strings.IndexByte(s, 0) >= 0 {
		return errNullByte
	}
	if uint64(len(s)) > MaxFieldLen {
		return errTooLong
	}
	return nil
}

// StrPtr returns a pointer to s, for optional info values.
func StrPtr(s string) *string {
	return &s
}
