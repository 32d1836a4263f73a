package store

import (
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Kind int

const (
	// KindBusy is transient lock contention; the caller may retry.
	KindBusy Kind = iota
	// KindIOFailure covers disk and connection failures.
	KindIOFailure
	// KindConstraintViolation is an invariant breach (empty body,
	// out-of-range sentiment). Never retryable.
	KindConstraintViolation
)

func (k Kind) String() string {
	switch k {
	case KindBusy:
		return "busy"
	case KindConstraintViolation:
		return "constraint_violation"
	default:
		return "io_failure"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify maps SQLite result codes onto the store error taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	kind := KindIOFailure
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			kind = KindBusy
		case sqlite3.SQLITE_CONSTRAINT:
			kind = KindConstraintViolation
		}
	}

	return &Error{Kind: kind, Op: op, Err: err}
}

// IsKind reports whether err is a store Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Kind == kind
	}
	return false
}
