// Package service runs each board and task use case inside one store
// transaction, wiring the lifecycle engine, the cascade coordinator and the
// default name allocator to the SQLite repositories.
package service

import (
	"context"
	"log/slog"
	"strings"

	"taskboard/internal/lifecycle"
	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

const (
	resourceBoard = "board"
	resourceTask  = "task"
)

// Options configures naming and paging.
type Options struct {
	BoardPrefix     string
	TaskPrefix      string
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		BoardPrefix:     "New Board",
		TaskPrefix:      "New Task",
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
}

// Service exposes board and task operations.
type Service struct {
	store  *sqlite.Store
	opts   Options
	logger *slog.Logger
}

// New constructs a Service over an open store.
func New(store *sqlite.Store, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultOptions()
	if strings.TrimSpace(opts.BoardPrefix) == "" {
		opts.BoardPrefix = def.BoardPrefix
	}
	if strings.TrimSpace(opts.TaskPrefix) == "" {
		opts.TaskPrefix = def.TaskPrefix
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = def.DefaultPageSize
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	return &Service{store: store, opts: opts, logger: logger}
}

// Ping reports whether the store answers.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// engines groups the transaction-bound lifecycle components.
type engines struct {
	boards  *lifecycle.Engine[models.Board]
	tasks   *lifecycle.Engine[models.Task]
	cascade *lifecycle.Cascade[models.Board, models.Task]
}

func (s *Service) bind(tx *sqlite.Tx) engines {
	tasksRepo := tx.Tasks()
	boards := lifecycle.NewEngine[models.Board](tx.Boards(), resourceBoard, s.logger)
	tasks := lifecycle.NewEngine[models.Task](tasksRepo, resourceTask, s.logger)
	return engines{
		boards:  boards,
		tasks:   tasks,
		cascade: lifecycle.NewCascade(boards, tasks, tasksRepo, s.logger),
	}
}

// PageRequest selects a page of a listing. Size 0 means the configured default.
type PageRequest struct {
	Page int
	Size int
}

func (s *Service) normalize(p PageRequest) PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = s.opts.DefaultPageSize
	}
	if p.Size > s.opts.MaxPageSize {
		p.Size = s.opts.MaxPageSize
	}
	return p
}

// count runs fn in a write transaction and returns the affected row count.
func (s *Service) count(ctx context.Context, fn func(e engines) (int64, error)) (int64, error) {
	var n int64
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		n, err = fn(s.bind(tx))
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// requireState returns StateMismatch when the record's flag differs from want.
func requireState(resource string, id int64, archived, want bool) error {
	if archived != want {
		return &models.StateMismatchError{Resource: resource, ID: id, WantArchived: want}
	}
	return nil
}
