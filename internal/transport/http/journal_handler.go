package handlers

import (
	"net/http"
	"time"

	"lifequest/internal/application/usecase"
	"lifequest/internal/domain"

	"github.com/gin-gonic/gin"
)

type JournalHandler struct {
	journals  *usecase.JournalUseCase
	analytics *usecase.AnalyticsUseCase
	loc       *time.Location
}

// NewJournalHandler takes the reference zone used to read calendar dates
// from query strings.
func NewJournalHandler(journals *usecase.JournalUseCase, analytics *usecase.AnalyticsUseCase, loc *time.Location) *JournalHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &JournalHandler{journals: journals, analytics: analytics, loc: loc}
}

type createJournalReq struct {
	Title     string      `json:"title" binding:"required"`
	Content   string      `json:"content" binding:"required"`
	Mood      domain.Mood `json:"mood"`
	MoodScore int         `json:"moodScore"`
	Tags      []string    `json:"tags"`
	IsPrivate *bool       `json:"isPrivate"`
	Weather   string      `json:"weather"`
	Location  string      `json:"location"`
}

type updateJournalReq struct {
	Title     *string      `json:"title"`
	Content   *string      `json:"content"`
	Mood      *domain.Mood `json:"mood"`
	MoodScore *int         `json:"moodScore"`
	Tags      *[]string    `json:"tags"`
	IsPrivate *bool        `json:"isPrivate"`
	Weather   *string      `json:"weather"`
	Location  *string      `json:"location"`
}

func (h *JournalHandler) List(c *gin.Context) {
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

	in := usecase.JournalListInput{
		Search:      c.Query("search"),
		Mood:        domain.Mood(c.Query("mood")),
		PageRequest: usecase.PageRequest{Page: page, Limit: limit},
	}
	if in.Mood == "all" {
		in.Mood = ""
	}
	var err error
	if in.From, err = h.queryDate(c, "startDate"); err != nil {
		respondError(c, err)
		return
	}
	if in.To, err = h.queryDate(c, "endDate"); err != nil {
		respondError(c, err)
		return
	}

	res, err := h.journals.List(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (h *JournalHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, domain.ErrJournalNotFound)
	if !ok {
		return
	}
	entry, err := h.journals.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, entry)
}

func (h *JournalHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req createJournalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.journals.Create(c.Request.Context(), userID, usecase.CreateJournalInput{
		Title:     req.Title,
		Content:   req.Content,
		Mood:      req.Mood,
		MoodScore: req.MoodScore,
		Tags:      req.Tags,
		IsPrivate: req.IsPrivate,
		Weather:   req.Weather,
		Location:  req.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, res)
}

func (h *JournalHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, domain.ErrJournalNotFound)
	if !ok {
		return
	}
	var req updateJournalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.journals.Update(c.Request.Context(), userID, id, usecase.UpdateJournalInput{
		Title:     req.Title,
		Content:   req.Content,
		Mood:      req.Mood,
		MoodScore: req.MoodScore,
		Tags:      req.Tags,
		IsPrivate: req.IsPrivate,
		Weather:   req.Weather,
		Location:  req.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, entry)
}

func (h *JournalHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, domain.ErrJournalNotFound)
	if !ok {
		return
	}
	if err := h.journals.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Journal entry deleted successfully")
}

func (h *JournalHandler) MoodStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}
	stats, err := h.analytics.MoodStats(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// queryDate accepts a calendar date (2006-01-02) in the reference zone or a
// full RFC 3339 timestamp.
func (h *JournalHandler) queryDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, h.loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.NewValidationError(key, "must be a date (YYYY-MM-DD)")
	}
	return &t, nil
}
