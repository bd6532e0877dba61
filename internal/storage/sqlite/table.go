package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// table implements the archive-aware record store contract once for every
// record kind. Kind-specific repositories embed it.
type table[T any] struct {
	q       querier
	name    string
	columns string
	scan    func(rowScanner) (T, error)
}

// FindByID returns the record with id, or false when there is none.
func (t table[T]) FindByID(ctx context.Context, id int64) (T, bool, error) {
	row := t.q.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, t.columns, t.name), id)
	rec, err := t.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, fmt.Errorf("get %s: %w", t.name, err)
	}
	return rec, true, nil
}

// FindAllByArchived returns every record carrying the flag, newest first.
func (t table[T]) FindAllByArchived(ctx context.Context, archived bool) ([]T, error) {
	return t.query(ctx, Filter{Archived: archived}.where(), orderBy, "")
}

// ExistsByID reports whether a record with id exists, whatever its flag.
func (t table[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var one int
	err := t.q.QueryRowContext(ctx, fmt.Sprintf(`SELECT 1 FROM %s WHERE id = ?`, t.name), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", t.name, err)
	}
	return true, nil
}

// SetArchived flips the flag of the records among ids that currently carry from.
func (t table[T]) SetArchived(ctx context.Context, ids []int64, from, to bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	in, args := inClause(ids)
	query := fmt.Sprintf(`UPDATE %s SET is_archived = ? WHERE id IN (%s) AND is_archived = ?`, t.name, in)
	return t.exec(ctx, query, append(append([]any{to}, args...), from)...)
}

// SetArchivedAll flips the flag of every record that currently carries from.
func (t table[T]) SetArchivedAll(ctx context.Context, from, to bool) (int64, error) {
	return t.exec(ctx, fmt.Sprintf(`UPDATE %s SET is_archived = ? WHERE is_archived = ?`, t.name), to, from)
}

// Delete removes the records among ids that carry the archived flag.
func (t table[T]) Delete(ctx context.Context, ids []int64, archived bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	in, args := inClause(ids)
	query := fmt.Sprintf(`DELETE FROM %s WHERE id IN (%s) AND is_archived = ?`, t.name, in)
	return t.exec(ctx, query, append(args, archived)...)
}

// DeleteAll removes every record carrying the archived flag.
func (t table[T]) DeleteAll(ctx context.Context, archived bool) (int64, error) {
	return t.exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE is_archived = ?`, t.name), archived)
}

// FindPage returns one page of the records matching f plus the total match count.
func (t table[T]) FindPage(ctx context.Context, f Filter, page, size int) ([]T, int64, error) {
	w := f.where()

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, t.name, w.sql)
	if err := t.q.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", t.name, err)
	}

	// An offset past what int can hold is past every row; SQLite would read a
	// wrapped negative OFFSET as 0 and return the first page instead.
	if size <= 0 || page > math.MaxInt/size {
		return nil, total, nil
	}
	limit := fmt.Sprintf("LIMIT %d OFFSET %d", size, page*size)
	records, err := t.query(ctx, w, orderBy, limit)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Find returns every record matching f.
func (t table[T]) Find(ctx context.Context, f Filter) ([]T, error) {
	return t.query(ctx, f.where(), orderBy, "")
}

const orderBy = "ORDER BY created_at DESC, id DESC"

func (t table[T]) query(ctx context.Context, w clause, order, limit string) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s %s %s`, t.columns, t.name, w.sql, order, limit)
	rows, err := t.q.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (t table[T]) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", t.name, mapError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

func inClause(ids []int64) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ", "), args
}
