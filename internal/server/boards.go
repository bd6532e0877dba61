package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
	"taskboard/internal/service"
)

type boardRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

func (r boardRequest) input() service.BoardInput {
	return service.BoardInput{Name: r.Name, Description: r.Description}
}

// listQuery holds the filter and paging parameters shared by listings.
type listQuery struct {
	Archived   bool   `form:"isArchived"`
	NameFilter string `form:"nameFilter"`
	BoardID    int64  `form:"boardId" binding:"min=0"`
	Page       int    `form:"page" binding:"min=0"`
	Size       int    `form:"size" binding:"min=0"`
}

func (s *Server) bindList(c *gin.Context) (listQuery, bool) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return q, false
	}
	return q, true
}

func (s *Server) handleListBoards(c *gin.Context) {
	q, ok := s.bindList(c)
	if !ok {
		return
	}
	page, err := s.svc.ListBoards(c.Request.Context(), service.BoardQuery{
		Archived:    q.Archived,
		NameFilter:  q.NameFilter,
		PageRequest: service.PageRequest{Page: q.Page, Size: q.Size},
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) handleGetBoard(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	archived, ok := s.boolQuery(c, false, "isArchived")
	if !ok {
		return
	}
	board, err := s.svc.GetBoard(c.Request.Context(), id, archived)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (s *Server) handleCreateBoard(c *gin.Context) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}
	board, err := s.svc.CreateBoard(c.Request.Context(), req.input())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/boards/%d", board.ID))
	c.JSON(http.StatusCreated, models.BoardDetail{Board: board, Tasks: []models.Task{}})
}

func (s *Server) handleUpdateBoard(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}
	board, err := s.svc.UpdateBoard(c.Request.Context(), id, req.input())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// handleDeleteBoard removes an archived board and its tasks.
func (s *Server) handleDeleteBoard(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	if _, err := s.svc.DeleteBoard(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListBoardTasks(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	q, ok := s.bindList(c)
	if !ok {
		return
	}
	q.BoardID = id
	s.listTasks(c, q)
}

func (s *Server) handleArchiveBoard(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	board, err := s.svc.ArchiveBoard(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (s *Server) handleRestoreBoard(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	withTasks, ok := s.withTasks(c)
	if !ok {
		return
	}
	board, err := s.svc.RestoreBoard(c.Request.Context(), id, withTasks)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (s *Server) handleRestoreBoards(c *gin.Context) {
	withTasks, ok := s.withTasks(c)
	if !ok {
		return
	}
	ids, ok := s.bindIDs(c)
	if !ok {
		return
	}
	n, err := s.svc.RestoreBoards(c.Request.Context(), ids, withTasks)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bulkResponse{Operation: opRestoreList, UpdatedRow: n, Cascade: &withTasks})
}

func (s *Server) handleRestoreAllBoards(c *gin.Context) {
	withTasks, ok := s.withTasks(c)
	if !ok {
		return
	}
	n, err := s.svc.RestoreAllBoards(c.Request.Context(), withTasks)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bulkResponse{Operation: opRestoreAll, UpdatedRow: n, Cascade: &withTasks})
}

// withTasks reads the cascade flag. It defaults to true.
func (s *Server) withTasks(c *gin.Context) (bool, bool) {
	return s.boolQuery(c, true, "withTasks", "isWithTasks")
}
