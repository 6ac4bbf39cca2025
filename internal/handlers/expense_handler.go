package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/pagination"
	"github.com/javigracia12/toofinance/internal/services"
)

// ExpenseHandler handles expense ledger requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
	now            Clock
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer, now Clock) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService, now: now}
}

// RecurringRequest turns a new expense into a monthly template.
type RecurringRequest struct {
	DayOfMonth int `json:"day_of_month" binding:"required,day_of_month"`
}

// ExpenseRequest represents the payload for creating or updating an expense.
// Amount and date are checked by the service so that they report
// INVALID_AMOUNT and INVALID_DATE.
type ExpenseRequest struct {
	Amount      decimal.Decimal   `json:"amount" swaggertype:"string" example:"12.50"`
	Description string            `json:"description" binding:"required,max=200"`
	Category    string            `json:"category" binding:"required"`
	Date        models.Date       `json:"date" swaggertype:"string" example:"2024-03-15"`
	Recurring   *RecurringRequest `json:"recurring,omitempty"`
}

func (r ExpenseRequest) input() services.ExpenseInput {
	return services.ExpenseInput{
		Amount:      r.Amount,
		Description: r.Description,
		Category:    r.Category,
		Date:        r.Date,
	}
}

// ExpenseListQuery holds the filters of an expense listing.
type ExpenseListQuery struct {
	Month    string `form:"month" binding:"omitempty,month_key"`
	Category string `form:"category"`
	Sort     string `form:"sort" binding:"omitempty,expense_sort"`
}

// CreateExpense handles recording an expense.
// @Summary     Create an expense
// @Description Record an expense. With "recurring" set, a monthly template is created too.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense details"
// @Success     201 {object} map[string]interface{} "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var recurringDay *int
	if req.Recurring != nil {
		recurringDay = &req.Recurring.DayOfMonth
	}

	expense, recurring, err := h.expenseService.CreateExpense(userID, req.input(), recurringDay)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditCreateExpense, models.ResourceExpense, expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount.String(), "category": expense.Category, "date": expense.Date.String()})

	resp := gin.H{"expense": expense}
	if recurring != nil {
		h.auditService.Log(userID, models.AuditCreateRecurring, models.ResourceRecurring, recurring.ID, c.ClientIP(),
			map[string]interface{}{"amount": recurring.Amount.String(), "day_of_month": recurring.DayOfMonth})
		resp["recurring"] = recurring
	}
	c.JSON(http.StatusCreated, resp)
}

// GetExpenses handles listing expenses.
// @Summary     List expenses
// @Description Get a filtered, sorted page of expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       month     query string false "Month (YYYY-MM)"
// @Param       category  query string false "Category slug"
// @Param       sort      query string false "date-desc, date-asc, amount-desc, amount-asc, category-asc or category-desc"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}
	var query ExpenseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	filter := services.ExpenseFilter{
		Month:    query.Month,
		Category: query.Category,
		Sort:     services.ExpenseSort(query.Sort),
	}
	result, err := h.expenseService.GetUserExpenses(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDashboard handles the monthly spending dashboard.
// @Summary     Get the spending dashboard
// @Description Totals, breakdown, six-month history, recent expenses and, for the current month, a prediction
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month (YYYY-MM), defaults to the current month"
// @Success     200 {object} spending.Dashboard "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/dashboard [get]
func (h *ExpenseHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.expenseService.GetDashboard(userID, c.Query("month"), h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetExpense handles retrieving a single expense.
// @Summary     Get an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} map[string]models.Expense "Expense"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles editing an expense.
// @Summary     Update an expense
// @Description Replace the amount, description, category and date of an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Expense ID"
// @Param       request body ExpenseRequest true "Expense details"
// @Success     200 {object} map[string]models.Expense "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditUpdateExpense, models.ResourceExpense, expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount.String(), "category": expense.Category, "date": expense.Date.String()})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles removing an expense.
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditDeleteExpense, models.ResourceExpense, expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
