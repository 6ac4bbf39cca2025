package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javigracia12/toofinance/internal/services"
)

// PipelineHandler exposes background jobs to external schedulers.
type PipelineHandler struct {
	recurringService services.RecurringServicer
	now              Clock
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(recurringService services.RecurringServicer, now Clock) *PipelineHandler {
	return &PipelineHandler{recurringService: recurringService, now: now}
}

// RunRecurringResponse reports a materialisation run.
type RunRecurringResponse struct {
	Created int `json:"created"`
}

// RunRecurring handles an on-demand materialisation of due recurring expenses.
// @Summary     Materialise recurring expenses
// @Description Create this month's expense for every active template whose day has been reached
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} RunRecurringResponse "Run result"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/recurring/run [post]
func (h *PipelineHandler) RunRecurring(c *gin.Context) {
	created, err := h.recurringService.MaterializeDue(c.Request.Context(), h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, RunRecurringResponse{Created: created})
}
