package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/javigracia12/toofinance/internal/errors"
	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/services"
	"github.com/javigracia12/toofinance/internal/wealth"
)

// WealthHandler handles the monthly wealth tracker.
type WealthHandler struct {
	wealthService services.WealthServicer
	auditService  services.AuditServicer
	now           Clock
}

// NewWealthHandler creates a new WealthHandler.
func NewWealthHandler(wealthService services.WealthServicer, auditService services.AuditServicer, now Clock) *WealthHandler {
	return &WealthHandler{wealthService: wealthService, auditService: auditService, now: now}
}

// UpdateCellRequest represents one edited cell of the tracker grid. The
// amount is lenient: anything that does not start with a number counts as 0.
type UpdateCellRequest struct {
	Kind       string           `json:"kind" binding:"required,row_kind"`
	Name       string           `json:"name" binding:"required,max=100"`
	Month      *int             `json:"month" binding:"required,min=0,max=12"`
	Amount     wealth.CellInput `json:"amount" swaggertype:"string" example:"1500.00"`
	AssetClass string           `json:"asset_class" binding:"max=50"`
}

// GetYear handles retrieving the tracker grid of a year.
// @Summary     Get a wealth year
// @Description Get snapshots, totals and derived values for months 0 (opening balance) to 12
// @Tags        wealth
// @Produce     json
// @Security    BearerAuth
// @Param       year path int true "Year"
// @Success     200 {object} wealth.YearView "Year grid"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wealth/years/{year} [get]
func (h *WealthHandler) GetYear(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYear(c.Param("year"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.wealthService.GetYear(c.Request.Context(), userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateCell handles setting one amount of the grid.
// @Summary     Update a wealth cell
// @Description Set the amount of a named row for one month, creating the month's snapshot if needed
// @Tags        wealth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year    path int               true "Year"
// @Param       request body UpdateCellRequest true "Cell edit"
// @Success     200 {object} wealth.YearView "Updated year grid"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wealth/years/{year}/cells [put]
func (h *WealthHandler) UpdateCell(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseYear(c.Param("year"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	kind, _ := wealth.ParseKind(req.Kind)

	update := services.CellUpdate{
		Kind:       kind,
		Name:       strings.TrimSpace(req.Name),
		Month:      *req.Month,
		Amount:     req.Amount.Amount(),
		AssetClass: req.AssetClass,
	}
	view, err := h.wealthService.UpdateCell(c.Request.Context(), userID, year, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditUpdateWealthCell, models.ResourceWealthEntry,
		fmt.Sprintf("%d-%02d/%s/%s", year, update.Month, kind, update.Name), c.ClientIP(),
		map[string]interface{}{"amount": update.Amount.StringFixed(wealth.AmountScale), "asset_class": req.AssetClass})

	c.JSON(http.StatusOK, view)
}

// DeleteRow handles removing a named row.
// @Summary     Delete a wealth row
// @Description Delete a name from every snapshot, or from one year's snapshots. Deleting an asset also deletes its investments.
// @Tags        wealth
// @Produce     json
// @Security    BearerAuth
// @Param       kind path  string true  "Row kind (cash, assets, debts, earnings, investments)"
// @Param       name path  string true  "Row name"
// @Param       year query int    false "Limit the deletion to one year"
// @Success     200 {object} services.DeleteRowResult "Deletion result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Row not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wealth/rows/{kind}/{name} [delete]
func (h *WealthHandler) DeleteRow(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	kind, ok := wealth.ParseKind(c.Param("kind"))
	if !ok {
		respondWithError(c, apperrors.ErrInvalidRowKind)
		return
	}

	var year *int
	if v := c.Query("year"); v != "" {
		y, err := parseYear(v)
		if err != nil {
			respondWithError(c, err)
			return
		}
		year = &y
	}

	name := strings.TrimSpace(c.Param("name"))
	result, err := h.wealthService.DeleteRow(c.Request.Context(), userID, kind, name, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{"deleted": result.Deleted}
	if year != nil {
		changes["year"] = *year
	}
	h.auditService.Log(userID, models.AuditDeleteWealthRow, models.ResourceWealthEntry, fmt.Sprintf("%s/%s", kind, name), c.ClientIP(), changes)

	c.JSON(http.StatusOK, result)
}

// GetDashboard handles the derived wealth dashboard.
// @Summary     Get the wealth dashboard
// @Description Net worth, income, implied spending, savings rate, composition, tracked-vs-implied comparison and allocation
// @Tags        wealth
// @Produce     json
// @Security    BearerAuth
// @Param       as_of query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success     200 {object} wealth.Dashboard "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wealth/dashboard [get]
func (h *WealthHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asOf := h.now()
	if v := c.Query("as_of"); v != "" {
		parsed, err := models.ParseDate(v)
		if err != nil {
			respondWithError(c, apperrors.ErrInvalidDate)
			return
		}
		asOf = parsed.Time
	}

	dashboard, err := h.wealthService.GetDashboard(c.Request.Context(), userID, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "year must be a number")
	}
	return year, nil
}

