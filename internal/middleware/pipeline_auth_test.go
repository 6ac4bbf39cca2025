package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupPipelineRouter mounts a stand-in for the recurring materialiser and
// counts how often it is reached.
func setupPipelineRouter(apiKey string, runs *int) *gin.Engine {
	r := gin.New()
	pipeline := r.Group("/api/v1/pipeline", PipelineAuthMiddleware(apiKey))
	pipeline.POST("/recurring/run", func(c *gin.Context) {
		*runs++
		c.JSON(http.StatusOK, gin.H{"created": 0})
	})
	return r
}

func doPipelineRequest(r *gin.Engine, header, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/recurring/run", http.NoBody)
	if apiKey != "" {
		req.Header.Set(header, apiKey)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCodeOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, _ := parseBody(t, rec)["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}

func TestPipelineAuthMiddleware(t *testing.T) {
	const key = "materialise-key"

	tests := []struct {
		name          string
		configuredKey string
		header        string
		requestKey    string
		wantStatus    int
		wantErrorCode string
	}{
		{name: "valid_key_runs_job", configuredKey: key, header: "X-API-Key", requestKey: key, wantStatus: http.StatusOK},
		{name: "header_name_is_case_insensitive", configuredKey: key, header: "x-api-key", requestKey: key, wantStatus: http.StatusOK},
		{name: "wrong_key", configuredKey: key, header: "X-API-Key", requestKey: "other", wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_API_KEY"},
		{name: "missing_key", configuredKey: key, header: "X-API-Key", wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_API_KEY"},
		{name: "prefix_of_key", configuredKey: key, header: "X-API-Key", requestKey: "materialise", wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_API_KEY"},
		{name: "key_in_authorization_header", configuredKey: key, header: "Authorization", requestKey: key, wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_API_KEY"},
		{name: "pipeline_disabled", configuredKey: "", header: "X-API-Key", requestKey: key, wantStatus: http.StatusServiceUnavailable, wantErrorCode: "PIPELINE_NOT_CONFIGURED"},
		{name: "pipeline_disabled_without_key", configuredKey: "", header: "X-API-Key", wantStatus: http.StatusServiceUnavailable, wantErrorCode: "PIPELINE_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := 0
			router := setupPipelineRouter(tt.configuredKey, &runs)
			rec := doPipelineRequest(router, tt.header, tt.requestKey)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantErrorCode != "" {
				if code := errorCodeOf(t, rec); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
				if runs != 0 {
					t.Errorf("job ran %d times on a rejected request", runs)
				}
				return
			}

			if runs != 1 {
				t.Errorf("job ran %d times, want 1", runs)
			}
		})
	}
}
