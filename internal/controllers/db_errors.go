package controllers

import (
	"errors"
	"strings"

	"github.com/jackc/pgconn"
)

// isUniqueViolation matches postgres 23505 plus the sqlite message used by
// the test driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
