package sqlite

import (
	"context"
	"fmt"
	"strings"

	"taskboard/internal/models"
)

const boardColumns = `id, name, description, is_archived, created_at, updated_at`

func boardTable(q querier) table[models.Board] {
	return table[models.Board]{q: q, name: "boards", columns: boardColumns, scan: scanBoard}
}

func scanBoard(r rowScanner) (models.Board, error) {
	var b models.Board
	err := r.Scan(&b.ID, &b.Name, &b.Description, &b.Archived, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// BoardRepo stores boards.
type BoardRepo struct {
	table[models.Board]
}

// Insert persists a new active board and returns it as stored.
func (r *BoardRepo) Insert(ctx context.Context, name, description string) (models.Board, error) {
	res, err := r.q.ExecContext(ctx, `INSERT INTO boards(name, description) VALUES(?, ?)`, name, description)
	if err != nil {
		return models.Board{}, fmt.Errorf("insert board: %w", mapError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Board{}, fmt.Errorf("board id: %w", err)
	}
	return r.mustGet(ctx, id)
}

// Update overwrites the editable fields of a board.
func (r *BoardRepo) Update(ctx context.Context, b models.Board) (models.Board, error) {
	_, err := r.q.ExecContext(ctx, `UPDATE boards SET name = ?, description = ? WHERE id = ?`, b.Name, b.Description, b.ID)
	if err != nil {
		return models.Board{}, fmt.Errorf("update board: %w", mapError(err))
	}
	return r.mustGet(ctx, b.ID)
}

// NamesByPrefix returns every board name starting with prefix, ignoring case.
func (r *BoardRepo) NamesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT name FROM boards WHERE LOWER(name) LIKE ? ESCAPE '\'`,
		escapeLike(strings.ToLower(prefix))+"%")
	if err != nil {
		return nil, fmt.Errorf("board names: %w", err)
	}
	return collectNames(rows)
}

func (r *BoardRepo) mustGet(ctx context.Context, id int64) (models.Board, error) {
	b, ok, err := r.FindByID(ctx, id)
	if err != nil {
		return models.Board{}, err
	}
	if !ok {
		return models.Board{}, fmt.Errorf("board %d missing after write: %w", id, models.ErrInvariantViolation)
	}
	return b, nil
}
