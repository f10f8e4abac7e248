package audithandler

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"payroll/internal/domain/audit"
	"payroll/internal/domain/auth"
	"payroll/internal/transport/http/middleware"
)

type stubStore struct {
	events    []audit.Event
	gotFilter audit.Filter
	gotLimit  int
	gotOffset int
}

func (s *stubStore) Count(_ context.Context, filter audit.Filter) (int, error) {
	return len(s.events), nil
}

func (s *stubStore) List(_ context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, error) {
	s.gotFilter, s.gotLimit, s.gotOffset = filter, limit, offset
	return s.events, nil
}

func newRouter(role string, store *stubStore) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithUser(req.Context(), auth.UserContext{Subject: "admin", RoleName: role})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	NewHandler(store, auth.StaticPermissions{}).RegisterRoutes(r)
	return r
}

func sampleEvents() []audit.Event {
	return []audit.Event{{
		ID: 9, Actor: "hr@example.com", Action: audit.ActionPayslipIssue,
		EntityType: audit.EntityPayslip, EntityID: "4", RequestID: "req-9", IP: "10.0.0.1",
		CreatedAt: time.Date(2024, 3, 28, 9, 0, 0, 0, time.UTC),
	}}
}

func TestListEventsPassesFilterAndPage(t *testing.T) {
	store := &stubStore{events: sampleEvents()}
	rec := httptest.NewRecorder()
	newRouter(auth.RoleSystemAdmin, store).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/audit/events?entityType=payslip&actor=hr@example.com&limit=10&offset=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Total-Count") != "1" {
		t.Fatalf("unexpected total %q", rec.Header().Get("X-Total-Count"))
	}
	if store.gotFilter.EntityType != "payslip" || store.gotFilter.Actor != "hr@example.com" || store.gotLimit != 10 || store.gotOffset != 5 {
		t.Fatalf("unexpected query filter=%+v limit=%d offset=%d", store.gotFilter, store.gotLimit, store.gotOffset)
	}
}

func TestListEventsRejectsBadPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(auth.RoleSystemAdmin, &stubStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events?limit=-1", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuditRequiresPermission(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(auth.RoleHR, &stubStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestExportEventsCSV(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(auth.RoleSystemAdmin, &stubStore{events: sampleEvents()}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/audit/events/export", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "9" || rows[1][2] != audit.ActionPayslipIssue || rows[1][7] != "2024-03-28T09:00:00Z" {
		t.Fatalf("unexpected rows %v", rows)
	}
}
