// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/services"
	"github.com/javigracia12/toofinance/internal/spending"
	"github.com/javigracia12/toofinance/internal/wealth"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("row_kind", validateRowKind)
		_ = v.RegisterValidation("expense_sort", validateExpenseSort)
		_ = v.RegisterValidation("day_of_month", validateDayOfMonth)
		_ = v.RegisterValidation("month_key", validateMonthKey)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

// validateRowKind accepts the wealth collections, singular or plural.
func validateRowKind(fl validator.FieldLevel) bool {
	_, ok := wealth.ParseKind(fl.Field().String())
	return ok
}

func validateExpenseSort(fl validator.FieldLevel) bool {
	sort := services.ExpenseSort(fl.Field().String())
	for _, s := range services.ExpenseSorts {
		if s == sort {
			return true
		}
	}
	return false
}

func validateDayOfMonth(fl validator.FieldLevel) bool {
	day := fl.Field().Int()
	return day >= 1 && day <= models.MaxRecurringDay
}

func validateMonthKey(fl validator.FieldLevel) bool {
	_, err := spending.ParseMonth(fl.Field().String())
	return err == nil
}
