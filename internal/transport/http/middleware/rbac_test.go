package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"payroll/internal/domain/auth"
)

func TestRequirePermission(t *testing.T) {
	guarded := RequirePermission(auth.PermPayrollWrite, auth.StaticPermissions{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name string
		user *auth.UserContext
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"manager", &auth.UserContext{Subject: "m", RoleName: auth.RoleManager}, http.StatusForbidden},
		{"hr", &auth.UserContext{Subject: "h", RoleName: auth.RoleHR}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payslips", nil)
			if tc.user != nil {
				req = req.WithContext(WithUser(req.Context(), *tc.user))
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
