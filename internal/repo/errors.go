package repo

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("repo: not found")

// ErrDuplicateUsername is returned when a registration races or repeats an
// existing username. The users.username unique constraint is the arbiter, so
// at most one of two concurrent creates can succeed.
var ErrDuplicateUsername = errors.New("repo: username already taken")

// uniqueViolation is the Postgres error code for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
