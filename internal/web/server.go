package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yangzhijiany/plan-project/internal/service"
)

// Server exposes the planner over HTTP. It is deliberately thin: request
// decoding, ownership params and status-code mapping live here, everything
// else is in the services.
type Server struct {
	router   *gin.Engine
	users    *service.UserService
	tasks    *service.TaskService
	plans    *service.PlanService
	schedule *service.ScheduleService
	calendar *service.CalendarService
}

func NewServer(users *service.UserService, tasks *service.TaskService, plans *service.PlanService, schedule *service.ScheduleService, calendar *service.CalendarService, allowedOrigins []string) *Server {
	router := gin.Default()

	s := &Server{
		router:   router,
		users:    users,
		tasks:    tasks,
		plans:    plans,
		schedule: schedule,
		calendar: calendar,
	}

	router.Use(corsMiddleware(allowedOrigins))

	router.POST("/users", s.handleCreateUser)
	router.GET("/users/:user_id", s.handleGetUser)
	router.GET("/user/by-nickname/:nickname", s.handleGetUserByNickname)

	router.POST("/tasks", s.handleCreateTask)
	router.GET("/tasks", s.handleListTasks)
	router.GET("/tasks/:task_id", s.handleGetTask)
	router.DELETE("/tasks/:task_id", s.handleDeleteTask)
	router.POST("/tasks/:task_id/generate-subtasks", s.handleGenerateSubtasks)
	router.POST("/tasks/:task_id/generate-plan", s.handleGeneratePlan)

	router.PUT("/subtasks/:subtask_id", s.handleUpdateSubtask)

	router.GET("/calendar", s.handleCalendar)
	router.DELETE("/calendar/clear", s.handleClearCalendar)
	router.GET("/today", s.handleToday)

	router.PUT("/daily-items/:item_id", s.handleUpdateItem)
	router.PUT("/daily-items/:item_id/toggle-complete", s.handleToggleItem)
	router.DELETE("/daily-items/:item_id", s.handleDeleteItem)

	return s
}

// Handler returns the http handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func corsMiddleware(allowed []string) gin.HandlerFunc {
	allowedSet := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		allowedSet[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowedSet[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
