package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/pagination"
	"github.com/javigracia12/toofinance/internal/services"
	"github.com/javigracia12/toofinance/internal/spending"
	"github.com/javigracia12/toofinance/internal/validator"
	"github.com/javigracia12/toofinance/internal/wealth"
)

const (
	testUserID = "0190a3a0-0000-7000-8000-000000000001"
	testID     = "0190a3a0-0000-7000-8000-0000000000aa"
)

// --- mock services ---

type mockWealthService struct {
	getYearFn      func(ctx context.Context, userID string, year int) (*wealth.YearView, error)
	updateCellFn   func(ctx context.Context, userID string, year int, update services.CellUpdate) (*wealth.YearView, error)
	deleteRowFn    func(ctx context.Context, userID string, kind wealth.Kind, name string, year *int) (*services.DeleteRowResult, error)
	getDashboardFn func(ctx context.Context, userID string, asOf time.Time) (*wealth.Dashboard, error)
}

func (m *mockWealthService) GetYear(ctx context.Context, userID string, year int) (*wealth.YearView, error) {
	if m.getYearFn != nil {
		return m.getYearFn(ctx, userID, year)
	}
	return &wealth.YearView{Year: year}, nil
}

func (m *mockWealthService) UpdateCell(ctx context.Context, userID string, year int, update services.CellUpdate) (*wealth.YearView, error) {
	if m.updateCellFn != nil {
		return m.updateCellFn(ctx, userID, year, update)
	}
	return &wealth.YearView{Year: year}, nil
}

func (m *mockWealthService) DeleteRow(ctx context.Context, userID string, kind wealth.Kind, name string, year *int) (*services.DeleteRowResult, error) {
	if m.deleteRowFn != nil {
		return m.deleteRowFn(ctx, userID, kind, name, year)
	}
	return &services.DeleteRowResult{Deleted: 1}, nil
}

func (m *mockWealthService) GetDashboard(ctx context.Context, userID string, asOf time.Time) (*wealth.Dashboard, error) {
	if m.getDashboardFn != nil {
		return m.getDashboardFn(ctx, userID, asOf)
	}
	return &wealth.Dashboard{}, nil
}

var _ services.WealthServicer = (*mockWealthService)(nil)

type mockCategoryService struct {
	getUserCategoriesFn func(userID string) ([]models.Category, error)
	createCategoryFn    func(userID, label, color string) (*models.Category, error)
	deleteCategoryFn    func(userID, categoryID string) error
	categoryExistsFn    func(userID, slug string) (bool, error)
}

func (m *mockCategoryService) GetUserCategories(userID string) ([]models.Category, error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) CreateCategory(userID, label, color string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, label, color)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

func (m *mockCategoryService) CategoryExists(userID, slug string) (bool, error) {
	if m.categoryExistsFn != nil {
		return m.categoryExistsFn(userID, slug)
	}
	return true, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

type mockExpenseService struct {
	createExpenseFn   func(userID string, input services.ExpenseInput, recurringDay *int) (*models.Expense, *models.RecurringExpense, error)
	getUserExpensesFn func(userID string, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	getExpenseByIDFn  func(userID, expenseID string) (*models.Expense, error)
	updateExpenseFn   func(userID, expenseID string, input services.ExpenseInput) (*models.Expense, error)
	deleteExpenseFn   func(userID, expenseID string) error
	getDashboardFn    func(userID, month string, now time.Time) (*spending.Dashboard, error)
}

func (m *mockExpenseService) CreateExpense(userID string, input services.ExpenseInput, recurringDay *int) (*models.Expense, *models.RecurringExpense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(userID, input, recurringDay)
	}
	return &models.Expense{}, nil, nil
}

func (m *mockExpenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if m.getUserExpensesFn != nil {
		return m.getUserExpensesFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(userID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpense(userID, expenseID string, input services.ExpenseInput) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(userID, expenseID, input)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(userID, expenseID string) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(userID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) ListLedger(_ context.Context, _ string) ([]wealth.LedgerEntry, error) {
	return nil, nil
}

func (m *mockExpenseService) GetDashboard(userID, month string, now time.Time) (*spending.Dashboard, error) {
	if m.getDashboardFn != nil {
		return m.getDashboardFn(userID, month, now)
	}
	return &spending.Dashboard{}, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

type mockRecurringService struct {
	getUserRecurringFn func(userID string) ([]models.RecurringExpense, error)
	updateRecurringFn  func(userID, recurringID string, update services.RecurringUpdate) (*models.RecurringExpense, error)
	toggleRecurringFn  func(userID, recurringID string) (*models.RecurringExpense, error)
	deleteRecurringFn  func(userID, recurringID string) error
	materializeDueFn   func(ctx context.Context, now time.Time) (int, error)
}

func (m *mockRecurringService) GetUserRecurring(userID string) ([]models.RecurringExpense, error) {
	if m.getUserRecurringFn != nil {
		return m.getUserRecurringFn(userID)
	}
	return []models.RecurringExpense{}, nil
}

func (m *mockRecurringService) UpdateRecurring(userID, recurringID string, update services.RecurringUpdate) (*models.RecurringExpense, error) {
	if m.updateRecurringFn != nil {
		return m.updateRecurringFn(userID, recurringID, update)
	}
	return &models.RecurringExpense{}, nil
}

func (m *mockRecurringService) ToggleRecurring(userID, recurringID string) (*models.RecurringExpense, error) {
	if m.toggleRecurringFn != nil {
		return m.toggleRecurringFn(userID, recurringID)
	}
	return &models.RecurringExpense{}, nil
}

func (m *mockRecurringService) DeleteRecurring(userID, recurringID string) error {
	if m.deleteRecurringFn != nil {
		return m.deleteRecurringFn(userID, recurringID)
	}
	return nil
}

func (m *mockRecurringService) MaterializeDue(ctx context.Context, now time.Time) (int, error) {
	if m.materializeDueFn != nil {
		return m.materializeDueFn(ctx, now)
	}
	return 0, nil
}

var _ services.RecurringServicer = (*mockRecurringService)(nil)

type auditCall struct {
	userID, action, resourceType, resourceID string
}

type mockAuditService struct {
	calls []auditCall
}

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, _ string, _ map[string]interface{}) {
	m.calls = append(m.calls, auditCall{userID, action, resourceType, resourceID})
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func fixedClock(s string) Clock {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertAudited(t *testing.T, audit *mockAuditService, action string) {
	t.Helper()
	for _, c := range audit.calls {
		if c.action == action {
			return
		}
	}
	t.Errorf("expected audit action %q, got %v", action, audit.calls)
}

func assertAuditedResource(t *testing.T, audit *mockAuditService, action, resourceID string) {
	t.Helper()
	for _, c := range audit.calls {
		if c.action == action && c.resourceID == resourceID {
			return
		}
	}
	t.Errorf("expected audit %q on %q, got %v", action, resourceID, audit.calls)
}
