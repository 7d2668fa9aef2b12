// Package boiledrepos implements the domain repositories over database/sql
// with sqlboiler raw queries and null types.
package boiledrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/storage/database"
)

const pgUniqueViolation = "23505"

type repo struct {
	exec     core.DBExecutor
	bindType int
}

func newRepo(exec core.DBExecutor, engine string) repo {
	return repo{exec: exec, bindType: database.BindType(engine)}
}

// query rebinds q ("?" placeholders) for the engine and binds the result rows into dest.
func (r repo) query(ctx context.Context, dest interface{}, q string, args ...interface{}) error {
	return queries.Raw(sqlx.Rebind(r.bindType, q), args...).Bind(ctx, r.exec, dest)
}

// queryIn expands slice arguments of q before querying.
func (r repo) queryIn(ctx context.Context, dest interface{}, q string, args ...interface{}) error {
	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return err
	}
	return r.query(ctx, dest, q, args...)
}

func (r repo) execute(ctx context.Context, q string, args ...interface{}) (sql.Result, error) {
	return r.exec.ExecContext(ctx, sqlx.Rebind(r.bindType, q), args...)
}

func (r repo) executeIn(ctx context.Context, q string, args ...interface{}) (sql.Result, error) {
	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, q, args...)
}

// trapNoRowsErr maps "no rows" errors to notFound.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// checkAffected returns notFound when res affected no row.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// isUniqueViolation reports whether err was raised by a UNIQUE or PRIMARY KEY constraint.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}
	return false
}

// orderBy renders an ORDER BY clause from the whitelisted columns; fallback is used when nothing matches.
func orderBy(ordering []core.DBOrdering, columns map[string]string, fallback string) string {
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if col, ok := columns[ord.Field]; ok {
			clauses = append(clauses, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	if len(clauses) == 0 {
		return " ORDER BY " + fallback
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
