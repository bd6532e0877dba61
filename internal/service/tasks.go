package service

import (
	"context"
	"log/slog"
	"strings"

	"taskboard/internal/lifecycle"
	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

// TaskInput carries user-supplied task fields. Nil means "not supplied".
type TaskInput struct {
	BoardID     int64
	Name        *string
	Description *string
	Status      *string
	Icon        *string
}

// TaskQuery filters a task listing. BoardID 0 lists across boards.
type TaskQuery struct {
	Archived   bool
	NameFilter string
	BoardID    int64
	PageRequest
}

// ListTasks returns one page of tasks.
func (s *Service) ListTasks(ctx context.Context, q TaskQuery) (models.Page[models.Task], error) {
	p := s.normalize(q.PageRequest)
	f := sqlite.Filter{Archived: q.Archived, NameContains: q.NameFilter}
	if q.BoardID > 0 {
		f.BoardIDs = []int64{q.BoardID}
	}

	var page models.Page[models.Task]
	err := s.store.ReadTx(ctx, func(tx *sqlite.Tx) error {
		tasks, total, err := tx.Tasks().FindPage(ctx, f, p.Page, p.Size)
		if err != nil {
			return err
		}
		page = models.NewPage(tasks, p.Page, p.Size, total)
		return nil
	})
	return page, err
}

// GetTask returns a task in the requested state.
func (s *Service) GetTask(ctx context.Context, id int64, archived bool) (models.Task, error) {
	var t models.Task
	err := s.store.ReadTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		t, err = loadTask(ctx, tx, id, archived)
		return err
	})
	return t, err
}

// CreateTask stores a new active task on an existing board. A blank name
// gets the next default name free among the board's active tasks.
func (s *Service) CreateTask(ctx context.Context, in TaskInput) (models.Task, error) {
	var created models.Task
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		ok, err := tx.Boards().ExistsByID(ctx, in.BoardID)
		if err != nil {
			return err
		}
		if !ok {
			return &models.NotFoundError{Resource: resourceBoard, ID: in.BoardID}
		}

		repo := tx.Tasks()
		name := strings.TrimSpace(deref(in.Name))
		if name == "" {
			taken, err := repo.ActiveNamesByPrefix(ctx, in.BoardID, s.opts.TaskPrefix)
			if err != nil {
				return err
			}
			name = lifecycle.NextDefaultName(s.opts.TaskPrefix, taken)
		}

		created, err = repo.Insert(ctx, models.Task{
			BoardID:     in.BoardID,
			Name:        name,
			Description: strings.TrimSpace(deref(in.Description)),
			Status:      models.ParseTaskStatus(deref(in.Status)),
			Icon:        models.ParseTaskIcon(deref(in.Icon)),
		})
		return err
	})
	if err != nil {
		return models.Task{}, err
	}
	s.logger.Info("task created",
		slog.Int64("id", created.ID),
		slog.Int64("board_id", created.BoardID),
		slog.String("name", created.Name))
	return created, nil
}

// UpdateTask edits an active task. Absent fields and a blank name keep their current values.
func (s *Service) UpdateTask(ctx context.Context, id int64, in TaskInput) (models.Task, error) {
	var updated models.Task
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		t, err := loadTask(ctx, tx, id, false)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(deref(in.Name)); name != "" {
			t.Name = name
		}
		if in.Description != nil {
			t.Description = strings.TrimSpace(*in.Description)
		}
		if in.Status != nil {
			t.Status = models.ParseTaskStatus(*in.Status)
		}
		if in.Icon != nil {
			t.Icon = models.ParseTaskIcon(*in.Icon)
		}
		updated, err = tx.Tasks().Update(ctx, t)
		return err
	})
	return updated, err
}

// ArchiveTask archives one active task.
func (s *Service) ArchiveTask(ctx context.Context, id int64) (models.Task, error) {
	return s.moveTask(ctx, func(e engines) (models.Task, error) { return e.tasks.ArchiveOne(ctx, id) })
}

// ArchiveTasks archives the active tasks among ids.
func (s *Service) ArchiveTasks(ctx context.Context, ids []int64) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.tasks.ArchiveMany(ctx, ids) })
}

// ArchiveAllTasks archives every active task.
func (s *Service) ArchiveAllTasks(ctx context.Context) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.tasks.ArchiveAll(ctx) })
}

// RestoreTask restores one archived task. The owning board is left as it is.
func (s *Service) RestoreTask(ctx context.Context, id int64) (models.Task, error) {
	return s.moveTask(ctx, func(e engines) (models.Task, error) { return e.tasks.RestoreOne(ctx, id) })
}

// RestoreTasks restores the archived tasks among ids.
func (s *Service) RestoreTasks(ctx context.Context, ids []int64) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.tasks.RestoreMany(ctx, ids) })
}

// RestoreAllTasks restores every archived task.
func (s *Service) RestoreAllTasks(ctx context.Context) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.tasks.RestoreAll(ctx) })
}

// DeleteTask removes one archived task.
func (s *Service) DeleteTask(ctx context.Context, id int64) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.tasks.DeleteOne(ctx, id) })
}

// DeleteTasks removes the archived tasks among ids.
func (s *Service) DeleteTasks(ctx context.Context, ids []int64) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.tasks.DeleteMany(ctx, ids) })
}

// PurgeTasks removes every archived task.
func (s *Service) PurgeTasks(ctx context.Context) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.tasks.PurgeAll(ctx) })
}

func (s *Service) moveTask(ctx context.Context, fn func(e engines) (models.Task, error)) (models.Task, error) {
	var t models.Task
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		t, err = fn(s.bind(tx))
		return err
	})
	return t, err
}

func loadTask(ctx context.Context, tx *sqlite.Tx, id int64, archived bool) (models.Task, error) {
	t, ok, err := tx.Tasks().FindByID(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if !ok {
		return models.Task{}, &models.NotFoundError{Resource: resourceTask, ID: id}
	}
	return t, requireState(resourceTask, id, t.Archived, archived)
}
