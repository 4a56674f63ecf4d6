package repository

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
// Queries are written with ? placeholders and passed through Rebind for the active driver.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern for use with LOWER(col) LIKE ? ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// requireRowsAffected turns an update or delete that matched nothing into sql.ErrNoRows.
func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
