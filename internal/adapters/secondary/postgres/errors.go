package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"portfolio-service/internal/core/domain"
)

const uniqueViolation = "23505"

// mapConnError tags connection failures with ErrDatabaseUnavailable so the
// HTTP layer can answer 503. Other errors pass through unchanged.
func mapConnError(err error) error {
	if err == nil {
		return nil
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", domain.ErrDatabaseUnavailable, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
