package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

const uniqueViolation = "23505"

// Open returns a pool for dsn that has answered a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// scope describes a soft-deletable table: its selected columns and the parent
// columns every lookup must match besides the id.
type scope struct {
	table    string
	columns  string
	parents  []string
	set      string
	notFound error
}

func (s scope) where() string {
	clauses := []string{"id = $1"}
	for i, p := range s.parents {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", p, i+2))
	}
	clauses = append(clauses, "is_deleted = 0")
	return strings.Join(clauses, " AND ")
}

// softDelete locks the scoped row, hands it to load and flags it deleted. The
// row must still be live when the update runs or s.notFound is returned.
func softDelete(ctx context.Context, tx *sql.Tx, s scope, load func(rowScanner) error, id uuid.UUID, parentIDs ...uuid.UUID) error {
	args := []any{id}
	for _, p := range parentIDs {
		args = append(args, p)
	}

	lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s FOR UPDATE`, s.columns, s.table, s.where())
	if err := load(tx.QueryRowContext(ctx, lock, args...)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.notFound
		}
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			return err
		}
		return fmt.Errorf("failed to lock %s row: %w", s.table, err)
	}

	set := "is_deleted = 1, updated_at = NOW()"
	if s.set != "" {
		set += ", " + s.set
	}
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET %s WHERE %s`, s.table, set, s.where()), args...)
	if err != nil {
		return fmt.Errorf("failed to delete %s row: %w", s.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return s.notFound
	}
	return nil
}

// conditions accumulates WHERE clauses and their positional arguments.
type conditions struct {
	clauses []string
	args    []any
}

func newConditions(clause string, arg any) *conditions {
	c := &conditions{}
	c.add(clause, arg)
	return c
}

// add appends clause, which must hold exactly one %d for the placeholder number.
func (c *conditions) add(clause string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *conditions) where() string {
	return strings.Join(append(c.clauses, "is_deleted = 0"), " AND ")
}

func (c *conditions) page(p ports.Pagination) string {
	c.args = append(c.args, p.Limit, p.Offset)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", len(c.args)-1, len(c.args))
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func affectedOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
