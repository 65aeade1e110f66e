package user

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leettrack/leettrack/internal/notify"
	"github.com/leettrack/leettrack/internal/problem"
	"github.com/leettrack/leettrack/pkg/logger"
	"github.com/leettrack/leettrack/pkg/models"
)

// Handler handles user profile and per-user progress operations.
type Handler struct {
	db       *sql.DB
	problems *problem.Service
	hub      *notify.Hub
	log      *logger.Logger
}

func NewHandler(db *sql.DB, problems *problem.Service, hub *notify.Hub) *Handler {
	return &Handler{
		db:       db,
		problems: problems,
		hub:      hub,
		log:      logger.GetLogger().WithContext("component", "user_handler"),
	}
}

// GetProfile gets the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	query := `SELECT id, username, email, created_at FROM users WHERE id = ?`
	err := h.db.QueryRow(query, userID).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ClearProgress handles DELETE /user/progress: removes every progress row
// for the caller, attempt history and code snippets included. Catalog rows
// stay.
func (h *Handler) ClearProgress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	count, err := h.problems.ClearAllProgress(userID)
	if err != nil {
		h.failProgress(c, err)
		return
	}

	h.hub.Publish(notify.Event{
		Type:   notify.EventProgressCleared,
		UserID: userID,
		Data:   map[string]interface{}{"cleared": count},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Progress cleared", "cleared": count})
}

// AddAttempt handles POST /problems/:slug/attempts.
func (h *Handler) AddAttempt(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.AddAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Attempt status is required"})
		return
	}

	attempt, err := h.problems.AddAttempt(userID, c.Param("slug"), req)
	if err != nil {
		h.failProgress(c, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

// ListAttempts handles GET /problems/:slug/attempts.
func (h *Handler) ListAttempts(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	attempts, err := h.problems.ListAttempts(userID, c.Param("slug"))
	if err != nil {
		h.failProgress(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// AddSnippet handles POST /problems/:slug/snippets.
func (h *Handler) AddSnippet(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.AddSnippetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Snippet code is required"})
		return
	}

	snippet, err := h.problems.AddSnippet(userID, c.Param("slug"), req)
	if err != nil {
		h.failProgress(c, err)
		return
	}
	c.JSON(http.StatusCreated, snippet)
}

// ListSnippets handles GET /problems/:slug/snippets.
func (h *Handler) ListSnippets(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	snippets, err := h.problems.ListSnippets(userID, c.Param("slug"))
	if err != nil {
		h.failProgress(c, err)
		return
	}
	c.JSON(http.StatusOK, snippets)
}

func (h *Handler) failProgress(c *gin.Context, err error) {
	switch {
	case errors.Is(err, problem.ErrValidation), errors.Is(err, problem.ErrNoProgress):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, problem.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error("request_failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
