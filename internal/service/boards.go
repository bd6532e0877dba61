package service

import (
	"context"
	"log/slog"
	"strings"

	"taskboard/internal/lifecycle"
	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

// BoardInput carries user-supplied board fields. Nil means "not supplied".
type BoardInput struct {
	Name        *string
	Description *string
}

// BoardQuery filters a board listing.
type BoardQuery struct {
	Archived   bool
	NameFilter string
	PageRequest
}

// ListBoards returns one page of boards.
func (s *Service) ListBoards(ctx context.Context, q BoardQuery) (models.Page[models.Board], error) {
	p := s.normalize(q.PageRequest)
	var page models.Page[models.Board]
	err := s.store.ReadTx(ctx, func(tx *sqlite.Tx) error {
		boards, total, err := tx.Boards().FindPage(ctx, sqlite.Filter{Archived: q.Archived, NameContains: q.NameFilter}, p.Page, p.Size)
		if err != nil {
			return err
		}
		page = models.NewPage(boards, p.Page, p.Size, total)
		return nil
	})
	return page, err
}

// GetBoard returns a board in the requested state together with its tasks.
func (s *Service) GetBoard(ctx context.Context, id int64, archived bool) (models.BoardDetail, error) {
	var detail models.BoardDetail
	err := s.store.ReadTx(ctx, func(tx *sqlite.Tx) error {
		b, err := loadBoard(ctx, tx, id, archived)
		if err != nil {
			return err
		}
		detail, err = boardDetail(ctx, tx, b)
		return err
	})
	return detail, err
}

// CreateBoard stores a new active board. A blank name gets the next free default name.
func (s *Service) CreateBoard(ctx context.Context, in BoardInput) (models.Board, error) {
	var created models.Board
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		repo := tx.Boards()
		name := strings.TrimSpace(deref(in.Name))
		if name == "" {
			taken, err := repo.NamesByPrefix(ctx, s.opts.BoardPrefix)
			if err != nil {
				return err
			}
			name = lifecycle.NextDefaultName(s.opts.BoardPrefix, taken)
		}

		var err error
		created, err = repo.Insert(ctx, name, strings.TrimSpace(deref(in.Description)))
		return err
	})
	if err != nil {
		return models.Board{}, err
	}
	s.logger.Info("board created", slog.Int64("id", created.ID), slog.String("name", created.Name))
	return created, nil
}

// UpdateBoard edits an active board. A blank name keeps the current one.
func (s *Service) UpdateBoard(ctx context.Context, id int64, in BoardInput) (models.BoardDetail, error) {
	var detail models.BoardDetail
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		b, err := loadBoard(ctx, tx, id, false)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(deref(in.Name)); name != "" {
			b.Name = name
		}
		if in.Description != nil {
			b.Description = strings.TrimSpace(*in.Description)
		}
		if b, err = tx.Boards().Update(ctx, b); err != nil {
			return err
		}
		detail, err = boardDetail(ctx, tx, b)
		return err
	})
	return detail, err
}

// ArchiveBoard archives one active board.
func (s *Service) ArchiveBoard(ctx context.Context, id int64) (models.BoardDetail, error) {
	var detail models.BoardDetail
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		b, err := s.bind(tx).boards.ArchiveOne(ctx, id)
		if err != nil {
			return err
		}
		detail, err = boardDetail(ctx, tx, b)
		return err
	})
	return detail, err
}

// ArchiveBoards archives the active boards among ids.
func (s *Service) ArchiveBoards(ctx context.Context, ids []int64) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.boards.ArchiveMany(ctx, ids) })
}

// ArchiveAllBoards archives every active board.
func (s *Service) ArchiveAllBoards(ctx context.Context) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.boards.ArchiveAll(ctx) })
}

// RestoreBoard restores an archived board, optionally with its archived tasks.
func (s *Service) RestoreBoard(ctx context.Context, id int64, withTasks bool) (models.BoardDetail, error) {
	var detail models.BoardDetail
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		b, err := s.bind(tx).cascade.RestoreOne(ctx, id, withTasks)
		if err != nil {
			return err
		}
		detail, err = boardDetail(ctx, tx, b)
		return err
	})
	return detail, err
}

// RestoreBoards restores the archived boards among ids, optionally with their archived tasks.
func (s *Service) RestoreBoards(ctx context.Context, ids []int64, withTasks bool) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.cascade.RestoreMany(ctx, ids, withTasks) })
}

// RestoreAllBoards restores every archived board, optionally with archived tasks.
func (s *Service) RestoreAllBoards(ctx context.Context, withTasks bool) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.cascade.RestoreAll(ctx, withTasks) })
}

// DeleteBoard removes an archived board and every task it owns.
func (s *Service) DeleteBoard(ctx context.Context, id int64) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.boards.DeleteOne(ctx, id) })
}

// DeleteBoards removes the archived boards among ids with their tasks.
func (s *Service) DeleteBoards(ctx context.Context, ids []int64) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.boards.DeleteMany(ctx, ids) })
}

// PurgeBoards removes every archived board with its tasks.
func (s *Service) PurgeBoards(ctx context.Context) (int64, error) {
	return s.count(ctx, func(e engines) (int64, error) { return e.boards.PurgeAll(ctx) })
}

func loadBoard(ctx context.Context, tx *sqlite.Tx, id int64, archived bool) (models.Board, error) {
	b, ok, err := tx.Boards().FindByID(ctx, id)
	if err != nil {
		return models.Board{}, err
	}
	if !ok {
		return models.Board{}, &models.NotFoundError{Resource: resourceBoard, ID: id}
	}
	return b, requireState(resourceBoard, id, b.Archived, archived)
}

func boardDetail(ctx context.Context, tx *sqlite.Tx, b models.Board) (models.BoardDetail, error) {
	tasks, err := tx.Tasks().ListByBoard(ctx, b.ID)
	if err != nil {
		return models.BoardDetail{}, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return models.BoardDetail{Board: b, Tasks: tasks}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
