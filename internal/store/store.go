// Package store holds the in-memory collection of records and the
// operations that mutate or query it.
package store

import (
	"fmt"

	"github.com/starford/ficor/internal/apperr"
	"github.com/starford/ficor/internal/models"
	"github.com/starford/ficor/internal/tagset"
)

// Store is an ordered collection of records with at most one record per
// path. Lookups are linear; the store is meant for small record counts.
type Store struct {
	records []models.Record
}

// New builds a store from recs, which are cloned. It fails if a record is
// invalid or a path appears twice.
func New(recs ...models.Record) (*Store, error) {
	s := &Store{records: make([]models.Record, 0, len(recs))}
	for i := range recs {
		if err := recs[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %q: %w", apperr.ErrArgument, recs[i].Path, err)
		}
		if s.find(recs[i].Path) >= 0 {
			return nil, fmt.Errorf("%w: record %q", apperr.ErrDuplicate, recs[i].Path)
		}
		s.records = append(s.records, recs[i].Clone())
	}
	return s, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of every record in insertion order.
func (s *Store) Records() []models.Record {
	return cloneAll(s.records)
}

// Get returns a copy of the record for path.
func (s *Store) Get(path string) (models.Record, bool) {
	i := s.find(path)
	if i < 0 {
		return models.Record{}, false
	}
	return s.records[i].Clone(), true
}

func (s *Store) find(path string) int {
	for i := range s.records {
		if s.records[i].Path == path {
			return i
		}
	}
	return -1
}

func (s *Store) mustFind(path string) (int, error) {
	i := s.find(path)
	if i < 0 {
		return -1, fmt.Errorf("%w: no record for %q", apperr.ErrNotFound, path)
	}
	return i, nil
}

// AddFile appends a record for path tagged with the tags of tagExpr. info
// may be nil. The returned index identifies the new record.
func (s *Store) AddFile(path, tagExpr string, info *string) (int, error) {
	tags := tagset.Parse(tagExpr)
	for _, t := range tags {
		if err := tagset.Validate(t); err != nil {
			return -1, err
		}
	}
	rec := models.Record{Path: path, Tags: tags}
	if info != nil {
		rec.Info = models.StrPtr(*info)
	}
	if err := rec.Validate(); err != nil {
		return -1, fmt.Errorf("%w: %w", apperr.ErrArgument, err)
	}
	if s.find(path) >= 0 {
		return -1, fmt.Errorf("%w: record %q", apperr.ErrDuplicate, path)
	}
	s.records = append(s.records, rec)
	return len(s.records) - 1, nil
}

// RemoveFile deletes the record for path, keeping the order of the rest.
func (s *Store) RemoveFile(path string) error {
	i, err := s.mustFind(path)
	if err != nil {
		return err
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return nil
}

// AddTag appends tag to the record for path. Tags already present are
// appended again.
func (s *Store) AddTag(path, tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: tag value is required", apperr.ErrMissingArgument)
	}
	if err := tagset.Validate(tag); err != nil {
		return err
	}
	i, err := s.mustFind(path)
	if err != nil {
		return err
	}
	s.records[i].Tags = append(s.records[i].Tags.Clone(), tag)
	return nil
}

// RemoveTag drops every tag of the record for path that appears in expr.
func (s *Store) RemoveTag(path, expr string) error {
	remove := tagset.Parse(expr)
	if len(remove) == 0 {
		return fmt.Errorf("%w: tag expression is required", apperr.ErrMissingArgument)
	}
	i, err := s.mustFind(path)
	if err != nil {
		return err
	}
	kept := s.records[i].Tags.Without(remove)
	if len(kept) == 0 {
		kept = nil
	}
	s.records[i].Tags = kept
	return nil
}

// List returns the records whose tags include every tag of include and
// none of exclude. Empty expressions do not filter.
func (s *Store) List(include, exclude string) []models.Record {
	inc, exc := tagset.Parse(include), tagset.Parse(exclude)
	var out []models.Record
	for i := range s.records {
		tags := s.records[i].Tags
		if tagset.IsSubset(tags, inc) && tagset.IsDisjoint(tags, exc) {
			out = append(out, s.records[i].Clone())
		}
	}
	return out
}

// Dump returns every record, unfiltered.
func (s *Store) Dump() []models.Record {
	return s.Records()
}

func cloneAll(recs []models.Record) []models.Record {
	out := make([]models.Record, len(recs))
	for i := range recs {
		out[i] = recs[i].Clone()
	}
	return out
}
