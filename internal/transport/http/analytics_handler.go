package handlers

import (
	"net/http"

	"lifequest/internal/application/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnalyticsHandler struct {
	analytics *usecase.AnalyticsUseCase
}

func NewAnalyticsHandler(analytics *usecase.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	dashboard, err := h.analytics.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dashboard)
}

func (h *AnalyticsHandler) Habits(c *gin.Context) {
	userID, days, ok := h.windowParams(c)
	if !ok {
		return
	}
	report, err := h.analytics.Habits(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, report)
}

func (h *AnalyticsHandler) Tasks(c *gin.Context) {
	userID, days, ok := h.windowParams(c)
	if !ok {
		return
	}
	report, err := h.analytics.Tasks(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, report)
}

func (h *AnalyticsHandler) Journals(c *gin.Context) {
	userID, days, ok := h.windowParams(c)
	if !ok {
		return
	}
	report, err := h.analytics.Journals(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, report)
}

func (h *AnalyticsHandler) windowParams(c *gin.Context) (uuid.UUID, int, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return uuid.Nil, 0, false
	}
	days, ok := queryInt(c, "days")
	return userID, days, ok
}
