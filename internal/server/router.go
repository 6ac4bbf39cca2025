// Package server wires services, handlers and middleware into the HTTP API.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/javigracia12/toofinance/internal/config"
	_ "github.com/javigracia12/toofinance/internal/docs" // Import swagger docs
	"github.com/javigracia12/toofinance/internal/handlers"
	"github.com/javigracia12/toofinance/internal/middleware"
	"github.com/javigracia12/toofinance/internal/services"
	"github.com/javigracia12/toofinance/internal/validator"
)

// Services groups the application services shared by the router and the
// scheduler.
type Services struct {
	Audit     services.AuditServicer
	Category  services.CategoryServicer
	Expense   services.ExpenseServicer
	Recurring services.RecurringServicer
	Wealth    services.WealthServicer
}

// NewServices builds every service on db.
func NewServices(db *gorm.DB) *Services {
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db, categoryService)
	return &Services{
		Audit:     services.NewAuditService(db),
		Category:  categoryService,
		Expense:   expenseService,
		Recurring: services.NewRecurringService(db, categoryService),
		Wealth:    services.NewWealthService(db, expenseService),
	}
}

// NewRouter builds the Gin engine. now supplies the current time in the
// configured timezone.
func NewRouter(cfg *config.Config, svc *Services, now func() time.Time) *gin.Engine {
	validator.Register()

	clock := handlers.Clock(now)
	wealthHandler := handlers.NewWealthHandler(svc.Wealth, svc.Audit, clock)
	categoryHandler := handlers.NewCategoryHandler(svc.Category, svc.Audit)
	expenseHandler := handlers.NewExpenseHandler(svc.Expense, svc.Audit, clock)
	recurringHandler := handlers.NewRecurringHandler(svc.Recurring, svc.Audit)
	pipelineHandler := handlers.NewPipelineHandler(svc.Recurring, clock)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Pipeline routes authenticate with an API key instead of a user token.
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/recurring/run", pipelineHandler.RunRecurring)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	wealth := protected.Group("/wealth")
	wealth.GET("/years/:year", wealthHandler.GetYear)
	wealth.PUT("/years/:year/cells", wealthHandler.UpdateCell)
	wealth.DELETE("/rows/:kind/:name", wealthHandler.DeleteRow)
	wealth.GET("/dashboard", wealthHandler.GetDashboard)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("/dashboard", expenseHandler.GetDashboard)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	recurring := protected.Group("/recurring")
	recurring.GET("", recurringHandler.GetRecurring)
	recurring.PUT("/:id", recurringHandler.UpdateRecurring)
	recurring.POST("/:id/toggle", recurringHandler.ToggleRecurring)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurring)

	return router
}
