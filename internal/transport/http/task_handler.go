package handlers

import (
	"net/http"
	"strconv"
	"time"

	"lifequest/internal/application/usecase"
	"lifequest/internal/domain"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	tasks *usecase.TaskUseCase
}

func NewTaskHandler(tasks *usecase.TaskUseCase) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type createTaskReq struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Priority    domain.Priority `json:"priority"`
	Category    string          `json:"category"`
	DueDate     *time.Time      `json:"dueDate"`
	Points      *int            `json:"points"`
	Tags        []string        `json:"tags"`
}

type updateTaskReq struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	Priority     *domain.Priority `json:"priority"`
	Category     *string          `json:"category"`
	DueDate      *time.Time       `json:"dueDate"`
	ClearDueDate bool             `json:"clearDueDate"`
	Points       *int             `json:"points"`
	Tags         *[]string        `json:"tags"`
	Completed    *bool            `json:"completed"`
}

func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	in := usecase.TaskListInput{
		Category:    c.Query("category"),
		Search:      c.Query("search"),
		PageRequest: usecase.PageRequest{Page: page, Limit: limit},
	}
	if in.Category == "all" {
		in.Category = ""
	}
	if raw := c.Query("completed"); raw != "" && raw != "all" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, domain.NewValidationError("completed", "must be true or false"))
			return
		}
		in.Completed = &completed
	}

	res, err := h.tasks.List(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, domain.ErrTaskNotFound)
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, task)
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req createTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), userID, usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		DueDate:     req.DueDate,
		Points:      req.Points,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, domain.ErrTaskNotFound)
	if !ok {
		return
	}
	var req updateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.tasks.Update(c.Request.Context(), userID, id, usecase.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Category:     req.Category,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		Points:       req.Points,
		Tags:         req.Tags,
		Completed:    req.Completed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, domain.ErrTaskNotFound)
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Task deleted successfully")
}

func (h *TaskHandler) Categories(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	categories, err := h.tasks.Categories(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, categories)
}
