// Package tagset implements colon-delimited tag expressions and the
// membership predicates used to filter records.
package tagset

import (
	"fmt"
	"strings"

	"github.com/starford/ficor/internal/apperr"
)

// Separator delimits tokens in a tag expression.
const Separator = ":"

// TagSet is an ordered sequence of tags. Duplicates are permitted; the
// predicates treat it as a set.
type TagSet []string

// Parse splits a colon-delimited expression into tags. Empty segments are
// dropped, so an empty expression yields an empty TagSet ("no filter").
func Parse(expr string) TagSet {
	if expr == "" {
		return nil
	}
	var out TagSet
	for _, tok := range strings.Split(expr, Separator) {
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Contains reports whether tag is present.
func (s TagSet) Contains(tag string) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

// IsSubset reports whether every tag in filter is present in tags.
// An empty filter is a subset of anything.
func IsSubset(tags, filter TagSet) bool {
	for _, f := range filter {
		if !tags.Contains(f) {
			return false
		}
	}
	return true
}

// IsDisjoint reports whether no tag in filter is present in tags.
func IsDisjoint(tags, filter TagSet) bool {
	for _, f := range filter {
		if tags.Contains(f) {
			return false
		}
	}
	return true
}

// Without returns a new TagSet holding the tags of s that are not in
// remove, in their original order.
func (s TagSet) Without(remove TagSet) TagSet {
	out := make(TagSet, 0, len(s))
	for _, t := range s {
		if remove.Contains(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Clone returns a copy that does not share the backing array.
func (s TagSet) Clone() TagSet {
	if s == nil {
		return nil
	}
	out := make(TagSet, len(s))
	copy(out, s)
	return out
}

// String renders the set as a tag expression.
func (s TagSet) String() string {
	return strings.Join(s, Separator)
}

// Validate checks a single tag value. Tags are NUL-terminated on disk and
// colon-delimited in expressions, so neither byte may appear in one.
func Validate(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: empty tag", apperr.ErrArgument)
	}
	if strings.ContainsRune(tag, 0) {
		return fmt.Errorf("%w: null byte in tag %q", apperr.ErrArgument, tag)
	}
	if strings.Contains(tag, Separator) {
		return fmt.Errorf("%w: tag %q contains %q", apperr.ErrArgument, tag, Separator)
	}
	return nil
}
