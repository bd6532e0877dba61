// Package lifecycle moves boards and tasks between the active and archived
// states and removes archived records.
//
//	ACTIVE --archive--> ARCHIVED
//	ARCHIVED --restore--> ACTIVE
//	ARCHIVED --delete--> (removed)
//
// Every transition is a single set-based conditional write against the
// record store. Single-id calls explain a zero-row write as either not found
// or state mismatch; bulk calls only report how many rows moved.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"taskboard/internal/models"
)

// Record is anything with a store-assigned id.
type Record interface {
	RecordID() int64
}

// Store is the per-kind record store the engine drives.
type Store[T Record] interface {
	FindByID(ctx context.Context, id int64) (T, bool, error)
	FindAllByArchived(ctx context.Context, archived bool) ([]T, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	SetArchived(ctx context.Context, ids []int64, from, to bool) (int64, error)
	SetArchivedAll(ctx context.Context, from, to bool) (int64, error)
	Delete(ctx context.Context, ids []int64, archived bool) (int64, error)
	DeleteAll(ctx context.Context, archived bool) (int64, error)
}

// Engine enforces the archive state machine for one record kind.
type Engine[T Record] struct {
	store    Store[T]
	resource string
	logger   *slog.Logger
}

// NewEngine binds an engine to a store. resource names the kind in errors ("board", "task").
func NewEngine[T Record](store Store[T], resource string, logger *slog.Logger) *Engine[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine[T]{
		store:    store,
		resource: resource,
		logger:   logger.With(slog.String("resource", resource)),
	}
}

// Resource returns the kind name used in errors.
func (e *Engine[T]) Resource() string { return e.resource }

// List returns every record carrying the given flag.
func (e *Engine[T]) List(ctx context.Context, archived bool) ([]T, error) {
	records, err := e.store.FindAllByArchived(ctx, archived)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", e.resource, err)
	}
	return records, nil
}

// ArchiveOne archives an active record and returns its new representation.
func (e *Engine[T]) ArchiveOne(ctx context.Context, id int64) (T, error) {
	return e.moveOne(ctx, id, false, true)
}

// ArchiveMany archives the active records among ids.
func (e *Engine[T]) ArchiveMany(ctx context.Context, ids []int64) (int64, error) {
	return e.moveMany(ctx, ids, false, true)
}

// ArchiveAll archives every active record.
func (e *Engine[T]) ArchiveAll(ctx context.Context) (int64, error) {
	return e.moveAll(ctx, false, true)
}

// RestoreOne restores an archived record and returns its new representation.
func (e *Engine[T]) RestoreOne(ctx context.Context, id int64) (T, error) {
	return e.moveOne(ctx, id, true, false)
}

// RestoreMany restores the archived records among ids.
func (e *Engine[T]) RestoreMany(ctx context.Context, ids []int64) (int64, error) {
	return e.moveMany(ctx, ids, true, false)
}

// RestoreAll restores every archived record.
func (e *Engine[T]) RestoreAll(ctx context.Context) (int64, error) {
	return e.moveAll(ctx, true, false)
}

// DeleteOne removes an archived record.
func (e *Engine[T]) DeleteOne(ctx context.Context, id int64) (int64, error) {
	e.logger.Debug("delete start", slog.Int64("id", id))

	n, err := e.store.Delete(ctx, []int64{id}, true)
	if err != nil {
		return 0, fmt.Errorf("delete %s %d: %w", e.resource, id, err)
	}
	if n == 0 {
		return 0, e.explain(ctx, id, true)
	}

	e.logger.Info("deleted", slog.Int64("id", id))
	return n, nil
}

// DeleteMany removes the archived records among ids.
func (e *Engine[T]) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := e.store.Delete(ctx, ids, true)
	if err != nil {
		return 0, fmt.Errorf("delete %s list: %w", e.resource, err)
	}
	e.logger.Info("bulk delete", slog.Any("ids", ids), slog.Int64("affected", n))
	return n, nil
}

// PurgeAll removes every archived record.
func (e *Engine[T]) PurgeAll(ctx context.Context) (int64, error) {
	n, err := e.store.DeleteAll(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", e.resource, err)
	}
	e.logger.Info("purge", slog.Int64("affected", n))
	return n, nil
}

func (e *Engine[T]) moveOne(ctx context.Context, id int64, from, to bool) (T, error) {
	var zero T
	e.logger.Debug("transition start", slog.Int64("id", id), slog.String("to", models.StateName(to)))

	n, err := e.store.SetArchived(ctx, []int64{id}, from, to)
	if err != nil {
		return zero, fmt.Errorf("set %s %d %s: %w", e.resource, id, models.StateName(to), err)
	}
	if n == 0 {
		return zero, e.explain(ctx, id, from)
	}

	rec, ok, err := e.store.FindByID(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("reload %s %d: %w", e.resource, id, err)
	}
	if !ok {
		e.logger.Error("record vanished after update", slog.Int64("id", id))
		return zero, fmt.Errorf("%s %d not found after update: %w", e.resource, id, models.ErrInvariantViolation)
	}

	e.logger.Info("transitioned", slog.Int64("id", id), slog.String("state", models.StateName(to)))
	return rec, nil
}

func (e *Engine[T]) moveMany(ctx context.Context, ids []int64, from, to bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := e.store.SetArchived(ctx, ids, from, to)
	if err != nil {
		return 0, fmt.Errorf("set %s list %s: %w", e.resource, models.StateName(to), err)
	}
	e.logger.Info("bulk transition", slog.Any("ids", ids), slog.String("state", models.StateName(to)), slog.Int64("affected", n))
	return n, nil
}

func (e *Engine[T]) moveAll(ctx context.Context, from, to bool) (int64, error) {
	n, err := e.store.SetArchivedAll(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("set all %s %s: %w", e.resource, models.StateName(to), err)
	}
	e.logger.Info("transition all", slog.String("state", models.StateName(to)), slog.Int64("affected", n))
	return n, nil
}

// explain turns a zero-row single-id write into NotFound or StateMismatch.
// required is the state the record had to be in.
func (e *Engine[T]) explain(ctx context.Context, id int64, required bool) error {
	exists, err := e.store.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check %s %d: %w", e.resource, id, err)
	}
	if !exists {
		return &models.NotFoundError{Resource: e.resource, ID: id}
	}
	return &models.StateMismatchError{Resource: e.resource, ID: id, WantArchived: required}
}
