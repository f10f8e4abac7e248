package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	c := New()
	c.Record(http.MethodGet, http.StatusOK, 10*time.Millisecond)
	c.Record(http.MethodGet, http.StatusOK, 20*time.Millisecond)
	c.Record(http.MethodPost, http.StatusTooManyRequests, time.Millisecond)
	c.ObserveIssue("issued", time.Millisecond)
	c.ObserveIssue("duplicate", time.Millisecond)
	c.ObserveIssue("duplicate", time.Millisecond)

	if got := testutil.ToFloat64(c.requests.WithLabelValues(http.MethodGet, "200")); got != 2 {
		t.Fatalf("expected 2 GET 200 requests, got %v", got)
	}
	if got := testutil.ToFloat64(c.rateLimited); got != 1 {
		t.Fatalf("expected 1 rate limited request, got %v", got)
	}
	if got := testutil.ToFloat64(c.issues.WithLabelValues("duplicate")); got != 2 {
		t.Fatalf("expected 2 duplicate issues, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.ObserveIssue("issued", time.Millisecond)
	c.ObserveRun("completed")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{`payroll_payslip_issue_total{outcome="issued"} 1`, `payroll_payroll_runs_total{status="completed"} 1`} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
