package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// codeForeignKeyViolation SQLSTATE de violación de llave foránea.
const codeForeignKeyViolation = "23503"

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeForeignKeyViolation
	}
	return false
}

// ErrorDetail extrae el detalle más útil de un error del almacén:
// Detail de PostgreSQL, luego Hint, luego el mensaje del error.
func ErrorDetail(err error) string {
	if err == nil {
		return ""
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Detail != "":
			return pgErr.Detail
		case pgErr.Hint != "":
			return pgErr.Hint
		case pgErr.Message != "":
			return pgErr.Message
		}
	}
	return err.Error()
}
