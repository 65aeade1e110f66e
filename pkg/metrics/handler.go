package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"problems_added_total":    GetProblemsAdded(),
		"upsert_races_won_total":  GetUpsertRacesWon(),
		"duplicate_rejects_total": GetDuplicateRejects(),
		"events_broadcast_total":  GetEventsBroadcast(),
		"active_subscribers":      GetActiveSubscribers(),
	})
}
