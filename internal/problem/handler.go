package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leettrack/leettrack/internal/notify"
	"github.com/leettrack/leettrack/pkg/logger"
	"github.com/leettrack/leettrack/pkg/models"
)

// Handler exposes the catalog and sync endpoints.
type Handler struct {
	service *Service
	hub     *notify.Hub
	log     *logger.Logger
}

func NewHandler(service *Service, hub *notify.Hub) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		log:     logger.GetLogger().WithContext("component", "problem_handler"),
	}
}

// statusFor maps the error taxonomy onto HTTP statuses. Unrecognized errors
// are internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrDuplicate), errors.Is(err, ErrNoProgress):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrIncompleteData):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request_failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(status, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// AddProblem handles POST /problems: attach a problem to the caller's list,
// creating the catalog row when it is the first reference.
func (h *Handler) AddProblem(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.AddProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	result, err := h.service.AddProblemForUser(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.hub.Publish(notify.Event{
		Type:   notify.EventProblemAdded,
		UserID: userID,
		Data: map[string]interface{}{
			"slug":  result.Problem.Slug,
			"title": result.Problem.Title,
		},
	})

	c.JSON(http.StatusOK, result)
}

// ListProblems handles GET /problems?userOnly=: the caller's joined rows,
// or the full shared catalog. Filtering beyond that is a client concern.
func (h *Handler) ListProblems(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if c.Query("userOnly") == "true" {
		list, err := h.service.ListForUser(userID)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	catalog, err := h.service.ListCatalog()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// GetProblem handles GET /problems/:slug.
func (h *Handler) GetProblem(c *gin.Context) {
	prob, err := h.service.Store().GetProblemBySlug(c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, prob)
}

// Curated handles GET /problems/curated.
func (h *Handler) Curated(c *gin.Context) {
	c.JSON(http.StatusOK, CuratedProblems)
}

// FetchProblem handles POST /problems/fetch: the adapter passthrough that
// returns normalized upstream metadata without touching the catalog.
func (h *Handler) FetchProblem(c *gin.Context) {
	var req models.FetchProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title slug is required"})
		return
	}

	data, err := h.service.FetchFromSource(c.Request.Context(), req.Slug)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// UpdateProblem handles PUT /problems/:slug: a partial update where absent
// fields stay untouched and an explicit null clears rating, notes or
// last_attempt.
func (h *Handler) UpdateProblem(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	patch, err := patchFromBody(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slug := c.Param("slug")
	result, err := h.service.UpdateFields(userID, slug, patch)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.publishProgress(userID, slug)
	c.JSON(http.StatusOK, result)
}

// patchFromBody turns the raw JSON object into a key-presence-aware patch.
// "field absent" and "field: null" are different things and stay different.
func patchFromBody(raw map[string]json.RawMessage) (ProgressPatch, error) {
	var patch ProgressPatch

	if v, ok := raw["status"]; ok {
		if err := json.Unmarshal(v, &patch.Status); err != nil {
			return patch, errors.New("status must be a string")
		}
		patch.SetStatus = true
	}
	if v, ok := raw["rating"]; ok {
		patch.SetRating = true
		if string(v) != "null" {
			var rating int
			if err := json.Unmarshal(v, &rating); err != nil {
				return patch, errors.New("rating must be an integer")
			}
			patch.Rating = &rating
		}
	}
	if v, ok := raw["notes"]; ok {
		patch.SetNotes = true
		if string(v) != "null" {
			if err := json.Unmarshal(v, &patch.Notes); err != nil {
				return patch, errors.New("notes must be a string")
			}
		}
	}
	if v, ok := raw["last_attempt"]; ok {
		patch.SetLastAttempt = true
		if string(v) != "null" {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return patch, errors.New("last_attempt must be a date string")
			}
			t, err := parseAttemptDate(s)
			if err != nil {
				return patch, errors.New("last_attempt must be a date string")
			}
			patch.LastAttempt = &t
		}
	}

	return patch, nil
}

// Future dates are accepted as-is; nothing in the data model forbids
// planning ahead.
func parseAttemptDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// UpdateRating handles PUT /problems/:slug/rating.
func (h *Handler) UpdateRating(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Rating == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating value"})
		return
	}

	slug := c.Param("slug")
	result, err := h.service.UpdateRating(userID, slug, *req.Rating)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.publishProgress(userID, slug)
	c.JSON(http.StatusOK, result)
}

// UpdateStatus handles PUT /problems/:slug/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	slug := c.Param("slug")
	result, err := h.service.UpdateStatus(userID, slug, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.publishProgress(userID, slug)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) publishProgress(userID, slug string) {
	h.hub.Publish(notify.Event{
		Type:   notify.EventProgressUpdate,
		UserID: userID,
		Data:   map[string]interface{}{"slug": slug},
	})
}
