package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
)

// ChildIndex finds the archived children owned by a set of parents in one query.
type ChildIndex interface {
	ArchivedChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error)
}

// Cascade restores parents and, on request, their archived children with a
// single bulk child restore. Hard deletion of children is left to the store's
// ownership constraint.
type Cascade[P, C Record] struct {
	parents  *Engine[P]
	children *Engine[C]
	index    ChildIndex
	logger   *slog.Logger
}

// NewCascade wires a parent engine to a child engine.
func NewCascade[P, C Record](parents *Engine[P], children *Engine[C], index ChildIndex, logger *slog.Logger) *Cascade[P, C] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cascade[P, C]{
		parents:  parents,
		children: children,
		index:    index,
		logger:   logger,
	}
}

// RestoreOne restores the parent and, when withChildren is set, every archived child of it.
func (c *Cascade[P, C]) RestoreOne(ctx context.Context, parentID int64, withChildren bool) (P, error) {
	parent, err := c.parents.RestoreOne(ctx, parentID)
	if err != nil {
		return parent, err
	}
	if withChildren {
		if _, err := c.restoreChildren(ctx, []int64{parentID}); err != nil {
			var zero P
			return zero, err
		}
	}
	return parent, nil
}

// RestoreMany restores the parents among ids and, when withChildren is set,
// the archived children of every listed parent in one bulk call, including
// parents that were already active. Nothing cascades when no parent moved.
func (c *Cascade[P, C]) RestoreMany(ctx context.Context, parentIDs []int64, withChildren bool) (int64, error) {
	n, err := c.parents.RestoreMany(ctx, parentIDs)
	if err != nil || n == 0 {
		return 0, err
	}
	if withChildren {
		if _, err := c.restoreChildren(ctx, parentIDs); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// RestoreAll restores every archived parent. With withChildren set, archived
// children of every active parent are restored afterwards.
func (c *Cascade[P, C]) RestoreAll(ctx context.Context, withChildren bool) (int64, error) {
	n, err := c.parents.RestoreAll(ctx)
	if err != nil || n == 0 {
		return 0, err
	}

	active, err := c.parents.List(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(active) == 0 {
		return 0, nil
	}

	if withChildren {
		ids := make([]int64, 0, len(active))
		for _, p := range active {
			ids = append(ids, p.RecordID())
		}
		if _, err := c.restoreChildren(ctx, ids); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func (c *Cascade[P, C]) restoreChildren(ctx context.Context, parentIDs []int64) (int64, error) {
	childIDs, err := c.index.ArchivedChildIDs(ctx, parentIDs)
	if err != nil {
		return 0, fmt.Errorf("collect archived %s of %s: %w", c.children.Resource(), c.parents.Resource(), err)
	}
	if len(childIDs) == 0 {
		return 0, nil
	}

	n, err := c.children.RestoreMany(ctx, childIDs)
	if err != nil {
		return 0, err
	}
	c.logger.Info("cascade restore",
		slog.String("parent", c.parents.Resource()),
		slog.Any("parentIds", parentIDs),
		slog.Int64("children", n),
	)
	return n, nil
}
