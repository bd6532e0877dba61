package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taskboard/internal/models"
)

const taskColumns = `id, board_id, name, description, status, icon, is_archived, created_at, updated_at`

func taskTable(q querier) table[models.Task] {
	return table[models.Task]{q: q, name: "tasks", columns: taskColumns, scan: scanTask}
}

func scanTask(r rowScanner) (models.Task, error) {
	var (
		t            models.Task
		status, icon string
	)
	err := r.Scan(&t.ID, &t.BoardID, &t.Name, &t.Description, &status, &icon, &t.Archived, &t.CreatedAt, &t.UpdatedAt)
	t.Status = models.ParseTaskStatus(status)
	t.Icon = models.ParseTaskIcon(icon)
	return t, err
}

// TaskRepo stores tasks.
type TaskRepo struct {
	table[models.Task]
}

// Insert persists a new active task and returns it as stored.
func (r *TaskRepo) Insert(ctx context.Context, t models.Task) (models.Task, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO tasks(board_id, name, description, status, icon) VALUES(?, ?, ?, ?, ?)`,
		t.BoardID, t.Name, t.Description, string(t.Status), string(t.Icon))
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", mapError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}
	return r.mustGet(ctx, id)
}

// Update overwrites the editable fields of a task.
func (r *TaskRepo) Update(ctx context.Context, t models.Task) (models.Task, error) {
	_, err := r.q.ExecContext(ctx,
		`UPDATE tasks SET name = ?, description = ?, status = ?, icon = ? WHERE id = ?`,
		t.Name, t.Description, string(t.Status), string(t.Icon), t.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", mapError(err))
	}
	return r.mustGet(ctx, t.ID)
}

// ListByBoard returns every task of a board, whatever its flag.
func (r *TaskRepo) ListByBoard(ctx context.Context, boardID int64) ([]models.Task, error) {
	rows, err := r.q.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM tasks WHERE board_id = ? %s`, taskColumns, orderBy), boardID)
	if err != nil {
		return nil, fmt.Errorf("list board tasks: %w", err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ArchivedChildIDs returns the ids of the archived tasks owned by any of boardIDs.
func (r *TaskRepo) ArchivedChildIDs(ctx context.Context, boardIDs []int64) ([]int64, error) {
	if len(boardIDs) == 0 {
		return nil, nil
	}
	tasks, err := r.Find(ctx, Filter{Archived: true, BoardIDs: boardIDs})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// ActiveNamesByPrefix returns the names of the board's active tasks starting with prefix, ignoring case.
func (r *TaskRepo) ActiveNamesByPrefix(ctx context.Context, boardID int64, prefix string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT name FROM tasks WHERE board_id = ? AND is_archived = 0 AND LOWER(name) LIKE ? ESCAPE '\'`,
		boardID, escapeLike(strings.ToLower(prefix))+"%")
	if err != nil {
		return nil, fmt.Errorf("task names: %w", err)
	}
	return collectNames(rows)
}

func (r *TaskRepo) mustGet(ctx context.Context, id int64) (models.Task, error) {
	t, ok, err := r.FindByID(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if !ok {
		return models.Task{}, fmt.Errorf("task %d missing after write: %w", id, models.ErrInvariantViolation)
	}
	return t, nil
}

func collectNames(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
