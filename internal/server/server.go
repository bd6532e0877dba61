package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/models"
	"taskboard/internal/service"
)

const (
	headerRequestID = "X-Request-ID"
	keyRequestID    = "requestID"
)

// Server provides HTTP handlers for the task board backend.
type Server struct {
	engine *gin.Engine
	svc    *service.Service
	logger *slog.Logger
}

// New constructs the HTTP server with routes and middleware configured.
func New(svc *service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz"))
	router.Use(requestID())

	srv := &Server{
		engine: router,
		svc:    svc,
		logger: logger,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		boards := api.Group("/boards")
		{
			boards.GET("", s.handleListBoards)
			boards.POST("", s.handleCreateBoard)
			boards.GET("/:id", s.handleGetBoard)
			boards.PUT("/:id", s.handleUpdateBoard)
			boards.DELETE("/:id", s.handleDeleteBoard)
			boards.GET("/:id/tasks", s.handleListBoardTasks)
			boards.POST("/:id/archive", s.handleArchiveBoard)
			boards.POST("/:id/restore", s.handleRestoreBoard)

			boards.POST("/archive", s.bulkIDs(opArchiveList, s.svc.ArchiveBoards))
			boards.POST("/archive-all", s.bulkAll(opArchiveAll, s.svc.ArchiveAllBoards))
			boards.POST("/restore", s.handleRestoreBoards)
			boards.POST("/restore-all", s.handleRestoreAllBoards)
			boards.POST("/delete", s.bulkIDs(opDeleteList, s.svc.DeleteBoards))
			boards.POST("/delete-all", s.bulkAll(opDeleteAll, s.svc.PurgeBoards))
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET("/:id", s.handleGetTask)
			tasks.PUT("/:id", s.handleUpdateTask)
			tasks.DELETE("/:id", s.handleDeleteTask)
			tasks.POST("/:id/archive", s.handleArchiveTask)
			tasks.POST("/:id/restore", s.handleRestoreTask)

			tasks.POST("/archive", s.bulkIDs(opArchiveList, s.svc.ArchiveTasks))
			tasks.POST("/archive-all", s.bulkAll(opArchiveAll, s.svc.ArchiveAllTasks))
			tasks.POST("/restore", s.bulkIDs(opRestoreList, s.svc.RestoreTasks))
			tasks.POST("/restore-all", s.bulkAll(opRestoreAll, s.svc.RestoreAllTasks))
			tasks.POST("/delete", s.bulkIDs(opDeleteList, s.svc.DeleteTasks))
			tasks.POST("/delete-all", s.bulkAll(opDeleteAll, s.svc.PurgeTasks))
		}
	}

	s.engine.NoRoute(func(c *gin.Context) {
		s.respondStatus(c, http.StatusNotFound, fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path))
	})
	s.engine.NoMethod(func(c *gin.Context) {
		s.respondStatus(c, http.StatusMethodNotAllowed, fmt.Sprintf("request method '%s' is not supported", c.Request.Method))
	})
}

// handleHealth reports whether the database answers.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.svc.Ping(c.Request.Context()); err != nil {
		s.respondStatus(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestID tags every request with an id, reusing the caller's when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(keyRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// parseID converts a path parameter to a positive int64.
func (s *Server) parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.respondError(c, fmt.Errorf("%w: invalid identifier %q", models.ErrValidation, raw))
		return 0, false
	}
	return id, true
}

// boolQuery reads an optional boolean query parameter, trying each name in order.
func (s *Server) boolQuery(c *gin.Context, def bool, names ...string) (bool, bool) {
	for _, name := range names {
		raw, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.respondError(c, fmt.Errorf("%w: %s must be a boolean", models.ErrValidation, name))
			return false, false
		}
		return v, true
	}
	return def, true
}
