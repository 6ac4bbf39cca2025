package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/javigracia12/toofinance/internal/errors"
	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/pagination"
	"github.com/javigracia12/toofinance/internal/services"
	"github.com/javigracia12/toofinance/internal/spending"
)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/expenses", handler.GetExpenses)
	auth.POST("/expenses", handler.CreateExpense)
	auth.GET("/expenses/dashboard", handler.GetDashboard)
	auth.GET("/expenses/:id", handler.GetExpense)
	auth.PUT("/expenses/:id", handler.UpdateExpense)
	auth.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func newExpense(input services.ExpenseInput) *models.Expense {
	return &models.Expense{
		Base:        models.Base{ID: testID},
		UserID:      testUserID,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Date:        input.Date,
	}
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("one_off", func(t *testing.T) {
		var got services.ExpenseInput
		var gotDay *int
		svc := &mockExpenseService{
			createExpenseFn: func(_ string, input services.ExpenseInput, day *int) (*models.Expense, *models.RecurringExpense, error) {
				got, gotDay = input, day
				return newExpense(input), nil, nil
			},
		}
		audit := &mockAuditService{}
		r := setupExpenseRouter(NewExpenseHandler(svc, audit, fixedClock("2024-03-10")))

		rec := doRequest(r, "POST", "/expenses",
			`{"amount":"12.50","description":"Lunch","category":"food","date":"2024-03-09"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Equal(decimal.RequireFromString("12.5")) || got.Category != "food" || got.Date.String() != "2024-03-09" {
			t.Errorf("unexpected input %+v", got)
		}
		if gotDay != nil {
			t.Errorf("expected no recurring day, got %d", *gotDay)
		}
		result := parseJSON(t, rec)
		expense := result["expense"].(map[string]interface{})
		if expense["date"] != "2024-03-09" {
			t.Errorf("expected date 2024-03-09, got %v", expense["date"])
		}
		if _, ok := result["recurring"]; ok {
			t.Error("expected no recurring template in response")
		}
		assertAudited(t, audit, "CREATE_EXPENSE")
	})

	t.Run("with_recurring", func(t *testing.T) {
		var gotDay *int
		svc := &mockExpenseService{
			createExpenseFn: func(_ string, input services.ExpenseInput, day *int) (*models.Expense, *models.RecurringExpense, error) {
				gotDay = day
				return newExpense(input), &models.RecurringExpense{Base: models.Base{ID: testID}, DayOfMonth: *day, IsActive: true}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupExpenseRouter(NewExpenseHandler(svc, audit, fixedClock("2024-03-10")))

		rec := doRequest(r, "POST", "/expenses",
			`{"amount":850,"description":"Rent","category":"bills","date":"2024-03-01","recurring":{"day_of_month":1}}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotDay == nil || *gotDay != 1 {
			t.Fatalf("expected recurring day 1, got %v", gotDay)
		}
		recurring := parseJSON(t, rec)["recurring"].(map[string]interface{})
		if recurring["day_of_month"] != float64(1) {
			t.Errorf("expected day_of_month 1, got %v", recurring["day_of_month"])
		}
		assertAudited(t, audit, "CREATE_RECURRING")
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing_description", `{"amount":"1","category":"food","date":"2024-03-09"}`},
		{"missing_category", `{"amount":"1","description":"x","date":"2024-03-09"}`},
		{"malformed_date", `{"amount":"1","description":"x","category":"food","date":"09/03/2024"}`},
		{"recurring_day_29", `{"amount":"1","description":"x","category":"food","date":"2024-03-09","recurring":{"day_of_month":29}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}, fixedClock("2024-03-10")))

			rec := doRequest(r, "POST", "/expenses", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("service_validation", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(string, services.ExpenseInput, *int) (*models.Expense, *models.RecurringExpense, error) {
				return nil, nil, apperrors.ErrInvalidAmount
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}, fixedClock("2024-03-10")))

		rec := doRequest(r, "POST", "/expenses", `{"amount":"0","description":"x","category":"food","date":"2024-03-09"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_AMOUNT")
	})
}

func TestExpenseHandler_GetExpenses(t *testing.T) {
	t.Run("passes_filters", func(t *testing.T) {
		var gotPage pagination.PageRequest
		var gotFilter services.ExpenseFilter
		svc := &mockExpenseService{
			getUserExpensesFn: func(_ string, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
				gotPage, gotFilter = page, filter
				resp := pagination.NewPageResponse([]models.Expense{{Description: "Lunch"}}, 2, 10, 11)
				return &resp, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}, fixedClock("2024-03-10")))

		rec := doRequest(r, "GET", "/expenses?month=2024-03&category=food&sort=amount-desc&page=2&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 2 || gotPage.PageSize != 10 {
			t.Errorf("unexpected page %+v", gotPage)
		}
		if gotFilter.Month != "2024-03" || gotFilter.Category != "food" || gotFilter.Sort != services.SortAmountDesc {
			t.Errorf("unexpected filter %+v", gotFilter)
		}
		result := parseJSON(t, rec)
		if result["total_pages"] != float64(2) {
			t.Errorf("expected 2 pages, got %v", result["total_pages"])
		}
	})

	tests := []struct {
		name  string
		query string
	}{
		{"bad_month", "?month=2024-13"},
		{"bad_sort", "?sort=random"},
		{"bad_page_size", "?page_size=500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}, fixedClock("2024-03-10")))

			rec := doRequest(r, "GET", "/expenses"+tt.query, "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestExpenseHandler_GetDashboard(t *testing.T) {
	t.Run("uses_clock_and_month", func(t *testing.T) {
		var gotMonth string
		var gotNow time.Time
		svc := &mockExpenseService{
			getDashboardFn: func(_ string, month string, now time.Time) (*spending.Dashboard, error) {
				gotMonth, gotNow = month, now
				return &spending.Dashboard{Month: "2024-02", PercentChange: -50}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}, fixedClock("2024-03-10")))

		rec := doRequest(r, "GET", "/expenses/dashboard?month=2024-02", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotMonth != "2024-02" || gotNow.Day() != 10 {
			t.Errorf("unexpected call month=%s now=%s", gotMonth, gotNow)
		}
		if parseJSON(t, rec)["percent_change"] != float64(-50) {
			t.Errorf("expected percent change -50")
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		svc := &mockExpenseService{
			getDashboardFn: func(string, string, time.Time) (*spending.Dashboard, error) {
				return nil, apperrors.ErrInvalidMonth
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}, fixedClock("2024-03-10")))

		rec := doRequest(r, "GET", "/expenses/dashboard?month=march", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_MONTH")
	})
}

func TestExpenseHandler_GetExpense(t *testing.T) {
	t.Run("returns_expense", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(_, id string) (*models.Expense, error) {
				return &models.Expense{Base: models.Base{ID: id}, Description: "Lunch"}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}, fixedClock("2024-03-10")))

		rec := doRequest(r, "GET", "/expenses/"+testID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["id"] != testID {
			t.Errorf("expected id %s, got %v", testID, expense["id"])
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc := &mockExpenseService{
			getExpenseByIDFn: func(string, string) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}, fixedClock("2024-03-10")))

		rec := doRequest(r, "GET", "/expenses/"+testID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EXPENSE_NOT_FOUND")
	})

	t.Run("invalid_id", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}, fixedClock("2024-03-10")))

		rec := doRequest(r, "GET", "/expenses/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_UpdateExpense(t *testing.T) {
	var gotID string
	var got services.ExpenseInput
	svc := &mockExpenseService{
		updateExpenseFn: func(_, id string, input services.ExpenseInput) (*models.Expense, error) {
			gotID, got = id, input
			return newExpense(input), nil
		},
	}
	audit := &mockAuditService{}
	r := setupExpenseRouter(NewExpenseHandler(svc, audit, fixedClock("2024-03-10")))

	rec := doRequest(r, "PUT", "/expenses/"+testID,
		`{"amount":"20","description":"Dinner","category":"dining","date":"2024-03-08"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != testID || got.Description != "Dinner" || got.Category != "dining" {
		t.Errorf("unexpected update %s %+v", gotID, got)
	}
	assertAudited(t, audit, "UPDATE_EXPENSE")
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	t.Run("returns_200", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, audit, fixedClock("2024-03-10")))

		rec := doRequest(r, "DELETE", "/expenses/"+testID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["message"] != "Expense deleted successfully" {
			t.Error("expected confirmation message")
		}
		assertAudited(t, audit, "DELETE_EXPENSE")
	})

	t.Run("not_found", func(t *testing.T) {
		svc := &mockExpenseService{
			deleteExpenseFn: func(string, string) error { return apperrors.ErrExpenseNotFound },
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}, fixedClock("2024-03-10")))

		rec := doRequest(r, "DELETE", "/expenses/"+testID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
