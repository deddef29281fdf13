package handlers

import (
	"errors"
	"io"
	"net/http"

	"lifequest/internal/application/usecase"
	"lifequest/internal/domain"

	"github.com/gin-gonic/gin"
)

type HabitHandler struct {
	habits *usecase.HabitUseCase
}

func NewHabitHandler(habits *usecase.HabitUseCase) *HabitHandler {
	return &HabitHandler{habits: habits}
}

type createHabitReq struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Color       string           `json:"color"`
	Icon        string           `json:"icon"`
	Frequency   domain.Frequency `json:"frequency"`
}

type updateHabitReq struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Color       *string           `json:"color"`
	Icon        *string           `json:"icon"`
	Frequency   *domain.Frequency `json:"frequency"`
	IsActive    *bool             `json:"isActive"`
}

type completeHabitReq struct {
	Note string `json:"note"`
}

func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	habits, err := h.habits.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, habits)
}

func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, domain.ErrHabitNotFound)
	if !ok {
		return
	}
	habit, err := h.habits.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, habit)
}

func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req createHabitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	habit, err := h.habits.Create(c.Request.Context(), userID, usecase.CreateHabitInput{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Frequency:   req.Frequency,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, habit)
}

func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, domain.ErrHabitNotFound)
	if !ok {
		return
	}
	var req updateHabitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	habit, err := h.habits.Update(c.Request.Context(), userID, id, usecase.UpdateHabitInput{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Frequency:   req.Frequency,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, domain.ErrHabitNotFound)
	if !ok {
		return
	}
	if err := h.habits.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Habit deleted successfully")
}

func (h *HabitHandler) Complete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, domain.ErrHabitNotFound)
	if !ok {
		return
	}
	// The body is optional.
	var req completeHabitReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.habits.Complete(c.Request.Context(), userID, id, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (h *HabitHandler) Uncomplete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, domain.ErrHabitNotFound)
	if !ok {
		return
	}
	habit, err := h.habits.Uncomplete(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, habit)
}
