package shared

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"payroll/internal/domain/audit"
	"payroll/internal/transport/http/middleware"
)

type Auditor interface {
	Record(ctx context.Context, e audit.Entry) error
}

// RecordAudit stamps entry with the caller, request ID and client IP and records it. A nil
// auditor disables recording. Failures are logged and never fail the request.
func RecordAudit(r *http.Request, auditor Auditor, entry audit.Entry) {
	if auditor == nil {
		return
	}
	ctx := r.Context()
	if user, ok := middleware.GetUser(ctx); ok {
		entry.Actor = user.Subject
	}
	if entry.Actor == "" {
		entry.Actor = "anonymous"
	}
	entry.RequestID = middleware.GetRequestID(ctx)
	entry.IP = clientIP(r)
	if err := auditor.Record(ctx, entry); err != nil {
		slog.Warn("audit record failed", "action", entry.Action, "entityId", entry.EntityID, "requestId", entry.RequestID, "err", err)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
