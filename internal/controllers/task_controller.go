package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskly-be/internal/middleware"
	"taskly-be/internal/models"
	"taskly-be/internal/service"
)

type TaskController struct {
	taskService service.TaskService
}

func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{
		taskService: taskService,
	}
}

// Create handles POST /tasks
func (tc *TaskController) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	task, err := tc.taskService.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// List handles GET /tasks with completed, sortBy, limit and skip query
// parameters
func (tc *TaskController) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	query := service.TaskListQuery{
		Completed: c.Query("completed"),
		SortBy:    c.Query("sortBy"),
		Limit:     c.Query("limit"),
		Skip:      c.Query("skip"),
	}

	tasks, err := tc.taskService.List(c.Request.Context(), user.ID, query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Get handles GET /tasks/:id
func (tc *TaskController) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	task, err := tc.taskService.Get(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update handles PATCH /tasks/:id - allow-listed partial update
func (tc *TaskController) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	upd, err := models.ParseTaskUpdate(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.taskService.Update(c.Request.Context(), c.Param("id"), user.ID, upd)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /tasks/:id
func (tc *TaskController) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	task, err := tc.taskService.Delete(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
