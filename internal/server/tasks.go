package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
	"taskboard/internal/service"
)

type taskRequest struct {
	BoardID     int64   `json:"boardId"`
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	Status      *string `json:"status"`
	Icon        *string `json:"icon"`
}

func (r taskRequest) input() service.TaskInput {
	return service.TaskInput{
		BoardID:     r.BoardID,
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Icon:        r.Icon,
	}
}

// handleListTasks lists tasks, optionally scoped to one board.
func (s *Server) handleListTasks(c *gin.Context) {
	q, ok := s.bindList(c)
	if !ok {
		return
	}
	s.listTasks(c, q)
}

func (s *Server) listTasks(c *gin.Context, q listQuery) {
	page, err := s.svc.ListTasks(c.Request.Context(), service.TaskQuery{
		Archived:    q.Archived,
		NameFilter:  q.NameFilter,
		BoardID:     q.BoardID,
		PageRequest: service.PageRequest{Page: q.Page, Size: q.Size},
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	archived, ok := s.boolQuery(c, false, "isArchived")
	if !ok {
		return
	}
	task, err := s.svc.GetTask(c.Request.Context(), id, archived)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// handleCreateTask inserts a new task into an existing board.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}
	if req.BoardID <= 0 {
		s.respondError(c, fmt.Errorf("%w: boardId is required", models.ErrValidation))
		return
	}

	task, err := s.svc.CreateTask(c.Request.Context(), req.input())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	c.JSON(http.StatusCreated, task)
}

// handleUpdateTask updates the supplied fields of an active task.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	task, err := s.svc.UpdateTask(c.Request.Context(), id, req.input())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// handleDeleteTask removes an archived task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	if _, err := s.svc.DeleteTask(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleArchiveTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	task, err := s.svc.ArchiveTask(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleRestoreTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}
	task, err := s.svc.RestoreTask(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
