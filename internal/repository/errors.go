package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned on unique-constraint violations.
var ErrDuplicate = errors.New("duplicate")

// ConstraintError wraps a storage-layer constraint violation (CHECK, NOT NULL,
// foreign key, unique). Retrying the same write cannot succeed.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("constraint %s violated: %v", e.Constraint, e.Err)
	}
	return fmt.Sprintf("constraint violated: %v", e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// TransientError wraps a connectivity or availability failure. The caller may
// retry the operation.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("store unavailable: %v", e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// PartialWriteError reports that a compound write completed its first leg but
// not its second. ResponseID identifies the orphaned contact_responses row
// for manual reconciliation.
type PartialWriteError struct {
	ResponseID string
	Err        error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write: response %s persisted but parent update failed: %v", e.ResponseID, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// classify maps a pgx error to the repository error taxonomy. SQLSTATE class
// 23 covers integrity constraint violations; everything else that reaches us
// from the driver is treated as transient (connectivity, shutdown, timeout).
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "23") {
			if pgErr.Code == "23505" {
				return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
			}
			return &ConstraintError{Constraint: pgErr.ConstraintName, Err: err}
		}
		// Class 22: data exceptions (bad uuid text, value too long) are also
		// non-retryable caller mistakes.
		if strings.HasPrefix(pgErr.Code, "22") {
			return &ConstraintError{Err: err}
		}
	}
	return &TransientError{Err: err}
}
