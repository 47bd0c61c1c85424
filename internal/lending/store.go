package lending

import (
	"fmt"
	"iter"
	"slices"
)

// Lender hands out raw records one at a time.
// Next returns false once the records are exhausted, and keeps returning
// false on every later call.
type Lender interface {
	Next() (string, bool)
}

// Store holds an ordered list of raw records and a cursor into it.
// A Store is not safe for concurrent use.
type Store struct {
	records []string
	pos     int
}

// New creates a Store positioned at the first record. The slice is copied.
func New(records []string) *Store {
	return &Store{records: slices.Clone(records)}
}

// Next returns the record under the cursor and advances the cursor.
// The cursor never moves past Len.
func (s *Store) Next() (string, bool) {
	if s.pos >= len(s.records) {
		return "", false
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, true
}

// Position returns the index of the next record to be returned.
func (s *Store) Position() int { return s.pos }

// Len returns the total number of records.
func (s *Store) Len() int { return len(s.records) }

// Remaining returns how many records Next will still return.
func (s *Store) Remaining() int { return len(s.records) - s.pos }

// Exhausted reports whether Next will return false.
func (s *Store) Exhausted() bool { return s.pos >= len(s.records) }

// All returns an iterator that drains the store through Next.
// Breaking out of the loop leaves the remaining records in place.
func (s *Store) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			rec, ok := s.Next()
			if !ok || !yield(rec) {
				return
			}
		}
	}
}

// Process advances l once and applies f to the record it yields.
// When l is exhausted f is not called and the zero T is returned with false.
// A panic in f is not recovered.
func Process[T any](l Lender, f func(string) T) (T, bool) {
	rec, ok := l.Next()
	if !ok {
		var zero T
		return zero, false
	}
	return f(rec), true
}

// ProcessErr is Process for transforms that can fail. The record is consumed
// even if f returns an error. Errors from a Store carry the record index.
func ProcessErr[T any](l Lender, f func(string) (T, error)) (T, bool, error) {
	var zero T
	pos := -1
	if p, ok := l.(interface{ Position() int }); ok {
		pos = p.Position()
	}
	rec, ok := l.Next()
	if !ok {
		return zero, false, nil
	}
	v, err := f(rec)
	if err != nil {
		if pos >= 0 {
			err = fmt.Errorf("record %d: %w", pos, err)
		}
		return zero, true, err
	}
	return v, true, nil
}

// Collect drains l through f and returns every result in order.
func Collect[T any](l Lender, f func(string) (T, error)) ([]T, error) {
	var out []T
	for {
		v, ok, err := ProcessErr(l, f)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
