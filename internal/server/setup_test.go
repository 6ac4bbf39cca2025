package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javigracia12/toofinance/internal/config"
	"github.com/javigracia12/toofinance/internal/logger"
	"github.com/javigracia12/toofinance/internal/middleware"
	"github.com/javigracia12/toofinance/internal/models"
	"github.com/javigracia12/toofinance/internal/testutil"
)

const (
	testSecret = "integration-secret"
	testAPIKey = "pipeline-key"
)

// testApp holds the full application stack for end-to-end tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Services *Services
	Now      time.Time
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "error")
}

// setupApp creates the full router backed by an isolated in-memory SQLite
// database. The clock is frozen at now.
func setupApp(t *testing.T, now time.Time, pipelineKey string) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	cfg := &config.Config{
		JWTSecret:      testSecret,
		PipelineAPIKey: pipelineKey,
	}
	svc := NewServices(db)
	router := NewRouter(cfg, svc, func() time.Time { return now })

	return &testApp{DB: db, Router: router, Services: svc, Now: now}
}

// newUser returns a fresh user ID and a bearer token for it.
func (app *testApp) newUser(t *testing.T) (token, userID string) {
	t.Helper()
	userID = testutil.NewUserID()
	token, err := middleware.GenerateToken(testSecret, "", userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token, userID
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(result map[string]interface{}) interface{} {
	errObj, _ := result["error"].(map[string]interface{})
	return errObj["code"]
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// pipeline calls a pipeline route with the test API key.
func (app *testApp) pipeline(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, http.NoBody)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func testRecurring(t *testing.T, app *testApp, userID string, day int) *models.RecurringExpense {
	t.Helper()
	return testutil.CreateTestRecurring(t, app.DB, userID, "food", "25.00", day)
}
