package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yangzhijiany/plan-project/internal/model"
	"github.com/yangzhijiany/plan-project/internal/service"
)

// writeError maps service error kinds onto status codes. Anything
// unclassified is an internal failure and keeps its detail out of the
// response body.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": "access to this task is not allowed"})
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case service.IsUpstream(err):
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return uint(id), true
}

// requireUser pulls the user_id query parameter, which the read views and
// bulk operations cannot do without.
func requireUser(c *gin.Context) (string, bool) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "user_id parameter is required"})
		return "", false
	}
	return userID, true
}

// Users

type createUserRequest struct {
	Nickname string `json:"nickname"`
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	view, err := s.users.Register(c.Request.Context(), req.Nickname)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleGetUser(c *gin.Context) {
	view, err := s.users.GetByPublicID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleGetUserByNickname(c *gin.Context) {
	view, err := s.users.GetByNickname(c.Request.Context(), c.Param("nickname"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Tasks

type createTaskRequest struct {
	UserID      string `json:"user_id"`
	TaskName    string `json:"task_name"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
	IsLongTerm  bool   `json:"is_long_term"`
	Deadline    string `json:"deadline"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.Importance == "" {
		req.Importance = model.ImportanceMedium
	}
	view, err := s.tasks.CreateTask(c.Request.Context(), req.UserID, service.TaskInput{
		Name:        req.TaskName,
		Description: req.Description,
		Importance:  req.Importance,
		IsLongTerm:  req.IsLongTerm,
		Deadline:    req.Deadline,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleListTasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	views, err := s.tasks.ListTasks(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleGetTask(c *gin.Context) {
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}
	view, err := s.tasks.GetTask(c.Request.Context(), c.Query("user_id"), taskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}
	if err := s.tasks.DeleteTask(c.Request.Context(), c.Query("user_id"), taskID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// Generation

type generateSubtasksRequest struct {
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	IsLongTerm  bool   `json:"is_long_term"`
}

func (s *Server) handleGenerateSubtasks(c *gin.Context) {
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}
	var req generateSubtasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	created, err := s.plans.GenerateSubtasks(c.Request.Context(), c.Query("user_id"), taskID, req.Description, req.Deadline, req.IsLongTerm)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subtasks": created})
}

func (s *Server) handleGeneratePlan(c *gin.Context) {
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}
	entries, err := s.plans.GeneratePlan(c.Request.Context(), c.Query("user_id"), taskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan generated", "items": entries})
}

// Subtasks

type updateSubtaskRequest struct {
	EstimatedHours float64 `json:"estimated_hours"`
}

func (s *Server) handleUpdateSubtask(c *gin.Context) {
	subtaskID, ok := pathID(c, "subtask_id")
	if !ok {
		return
	}
	var req updateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	view, err := s.tasks.UpdateSubtaskHours(c.Request.Context(), c.Query("user_id"), subtaskID, req.EstimatedHours)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Calendar

func (s *Server) handleCalendar(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	views, err := s.calendar.Range(c.Request.Context(), userID, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleToday(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	views, err := s.calendar.Today(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleClearCalendar(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	count, err := s.schedule.ClearCalendar(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("cleared %d schedule items", count)})
}

// Daily items

type updateItemRequest struct {
	AllocatedHours float64 `json:"allocated_hours"`
}

func (s *Server) handleUpdateItem(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	view, err := s.schedule.UpdateHours(c.Request.Context(), c.Query("user_id"), itemID, req.AllocatedHours)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleToggleItem(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	view, err := s.schedule.ToggleComplete(c.Request.Context(), c.Query("user_id"), itemID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleDeleteItem(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	deleteFuture := c.Query("delete_future") == "true"
	count, err := s.schedule.DeleteItem(c.Request.Context(), c.Query("user_id"), itemID, deleteFuture)
	if err != nil {
		writeError(c, err)
		return
	}
	if deleteFuture {
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("deleted %d schedule items", count)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "schedule item deleted"})
}
