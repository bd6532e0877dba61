package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
)

type bulkOperation string

const (
	opArchiveList bulkOperation = "ARCHIVE_LIST"
	opArchiveAll  bulkOperation = "ARCHIVE_ALL"
	opRestoreList bulkOperation = "RESTORE_LIST"
	opRestoreAll  bulkOperation = "RESTORE_ALL"
	opDeleteList  bulkOperation = "DELETE_LIST"
	opDeleteAll   bulkOperation = "DELETE_ALL"
)

type bulkResponse struct {
	Operation  bulkOperation `json:"operation"`
	UpdatedRow int64         `json:"updatedRow"`
	Cascade    *bool         `json:"cascade,omitempty"`
}

type idsRequest struct {
	IDList []int64 `json:"idList" binding:"required,min=1,dive,gt=0"`
}

// unique returns the ids in request order without repeats.
func (r idsRequest) unique() []int64 {
	seen := make(map[int64]struct{}, len(r.IDList))
	out := make([]int64, 0, len(r.IDList))
	for _, id := range r.IDList {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *Server) bindIDs(c *gin.Context) ([]int64, bool) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return nil, false
	}
	return req.unique(), true
}

// bulkIDs adapts an id-list operation to a handler.
func (s *Server) bulkIDs(op bulkOperation, fn func(ctx context.Context, ids []int64) (int64, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, ok := s.bindIDs(c)
		if !ok {
			return
		}
		n, err := fn(c.Request.Context(), ids)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bulkResponse{Operation: op, UpdatedRow: n})
	}
}

// bulkAll adapts a whole-table operation to a handler.
func (s *Server) bulkAll(op bulkOperation, fn func(ctx context.Context) (int64, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := fn(c.Request.Context())
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bulkResponse{Operation: op, UpdatedRow: n})
	}
}
