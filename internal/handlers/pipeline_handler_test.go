package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestPipelineHandler_RunRecurring(t *testing.T) {
	t.Run("reports_created", func(t *testing.T) {
		var gotNow time.Time
		svc := &mockRecurringService{
			materializeDueFn: func(_ context.Context, now time.Time) (int, error) {
				gotNow = now
				return 3, nil
			},
		}
		r := gin.New()
		r.POST("/pipeline/recurring/run", NewPipelineHandler(svc, fixedClock("2024-03-10")).RunRecurring)

		rec := doRequest(r, "POST", "/pipeline/recurring/run", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["created"] != float64(3) {
			t.Errorf("expected 3 created")
		}
		if gotNow.Format("2006-01-02") != "2024-03-10" {
			t.Errorf("expected clock time, got %s", gotNow)
		}
	})

	t.Run("unexpected_error", func(t *testing.T) {
		svc := &mockRecurringService{
			materializeDueFn: func(context.Context, time.Time) (int, error) {
				return 0, errors.New("boom")
			},
		}
		r := gin.New()
		r.POST("/pipeline/recurring/run", NewPipelineHandler(svc, fixedClock("2024-03-10")).RunRecurring)

		rec := doRequest(r, "POST", "/pipeline/recurring/run", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}
