package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/services"
)

// RecurringHandler handles recurring expense templates.
type RecurringHandler struct {
	recurringService services.RecurringServicer
	auditService     services.AuditServicer
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService services.RecurringServicer, auditService services.AuditServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService, auditService: auditService}
}

// UpdateRecurringRequest represents the payload for editing a template.
type UpdateRecurringRequest struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"850.00"`
	Description string          `json:"description" binding:"required,max=200"`
	Category    string          `json:"category" binding:"required"`
	DayOfMonth  int             `json:"day_of_month" binding:"required,day_of_month"`
}

// GetRecurring handles listing templates.
// @Summary     List recurring expenses
// @Description List the user's monthly templates, active ones first
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.RecurringExpense "Recurring expenses"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [get]
func (h *RecurringHandler) GetRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templates, err := h.recurringService.GetUserRecurring(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring": templates})
}

// UpdateRecurring handles editing a template.
// @Summary     Update a recurring expense
// @Description Change a template. Expenses it already generated are kept as they are.
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Recurring expense ID"
// @Param       request body UpdateRecurringRequest true "Template details"
// @Success     200 {object} map[string]models.RecurringExpense "Recurring expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id} [put]
func (h *RecurringHandler) UpdateRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	template, err := h.recurringService.UpdateRecurring(userID, recurringID, services.RecurringUpdate{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		DayOfMonth:  req.DayOfMonth,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditUpdateRecurring, models.ResourceRecurring, template.ID, c.ClientIP(),
		map[string]interface{}{"amount": template.Amount.String(), "category": template.Category, "day_of_month": template.DayOfMonth})

	c.JSON(http.StatusOK, gin.H{"recurring": template})
}

// ToggleRecurring handles pausing or resuming a template.
// @Summary     Pause or resume a recurring expense
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recurring expense ID"
// @Success     200 {object} map[string]models.RecurringExpense "Recurring expense toggled"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id}/toggle [post]
func (h *RecurringHandler) ToggleRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	template, err := h.recurringService.ToggleRecurring(userID, recurringID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditToggleRecurring, models.ResourceRecurring, template.ID, c.ClientIP(),
		map[string]interface{}{"is_active": template.IsActive})

	c.JSON(http.StatusOK, gin.H{"recurring": template})
}

// DeleteRecurring handles removing a template.
// @Summary     Delete a recurring expense
// @Description Delete a template. Expenses it generated stay as one-off expenses.
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Recurring expense ID"
// @Success     200 {object} MessageResponse "Recurring expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id} [delete]
func (h *RecurringHandler) DeleteRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurringService.DeleteRecurring(userID, recurringID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditDeleteRecurring, models.ResourceRecurring, recurringID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Recurring expense deleted successfully"})
}
