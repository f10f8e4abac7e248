package shared

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"payroll/internal/domain/audit"
	"payroll/internal/domain/auth"
	"payroll/internal/requestctx"
	"payroll/internal/transport/http/middleware"
)

type fakeAuditor struct {
	entries []audit.Entry
	err     error
}

func (f *fakeAuditor) Record(_ context.Context, e audit.Entry) error {
	f.entries = append(f.entries, e)
	return f.err
}

func TestRecordAuditStampsCaller(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/payslips", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	ctx := middleware.WithUser(req.Context(), auth.UserContext{Subject: "hr@example.com", RoleName: auth.RoleHR})
	req = req.WithContext(requestctx.WithRequestID(ctx, "req-1"))

	auditor := &fakeAuditor{}
	RecordAudit(req, auditor, audit.Entry{Action: audit.ActionPayslipIssue, EntityType: audit.EntityPayslip, EntityID: "7"})

	if len(auditor.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(auditor.entries))
	}
	got := auditor.entries[0]
	if got.Actor != "hr@example.com" || got.RequestID != "req-1" || got.IP != "10.1.2.3" || got.EntityID != "7" {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestRecordAuditTolerantOfFailures(t *testing.T) {
	req := httptest.NewRequest("DELETE", "/api/v1/employees/3", nil)
	auditor := &fakeAuditor{err: errors.New("db down")}
	RecordAudit(req, auditor, audit.Entry{Action: audit.ActionEmployeeDeactivate})
	if len(auditor.entries) != 1 || auditor.entries[0].Actor != "anonymous" {
		t.Fatalf("unexpected entries %+v", auditor.entries)
	}

	RecordAudit(req, nil, audit.Entry{Action: audit.ActionEmployeeDeactivate})
}
