package auth

import (
	"context"
	"testing"
)

func TestRolePermissionsSubset(t *testing.T) {
	allowed := map[string]struct{}{}
	for _, perm := range DefaultPermissions {
		allowed[perm] = struct{}{}
	}

	for role, perms := range RolePermissions {
		if len(perms) == 0 {
			t.Fatalf("role %s has no permissions", role)
		}
		for _, perm := range perms {
			if _, ok := allowed[perm]; !ok {
				t.Fatalf("role %s has unknown permission %s", role, perm)
			}
		}
	}
}

func TestDefaultPermissionsUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for _, perm := range DefaultPermissions {
		if _, ok := seen[perm]; ok {
			t.Fatalf("duplicate permission %s", perm)
		}
		seen[perm] = struct{}{}
	}
}

func TestStaticPermissions(t *testing.T) {
	ctx := context.Background()
	var perms StaticPermissions

	if ok, _ := perms.HasPermission(ctx, RoleManager, PermPayrollRead); !ok {
		t.Fatal("manager should read payroll")
	}
	if ok, _ := perms.HasPermission(ctx, RoleManager, PermPayrollWrite); ok {
		t.Fatal("manager must not issue payslips")
	}
	if ok, _ := perms.HasPermission(ctx, RoleManager, PermPayrollRun); ok {
		t.Fatal("manager must not start payroll runs")
	}
	if ok, _ := perms.HasPermission(ctx, RoleHR, PermPayrollRun); !ok {
		t.Fatal("hr should start payroll runs")
	}
	if ok, _ := perms.HasPermission(ctx, RoleHR, PermAuditRead); ok {
		t.Fatal("hr must not read the audit trail")
	}
	if ok, _ := perms.HasPermission(ctx, RoleSystemAdmin, PermAuditRead); !ok {
		t.Fatal("system admin should read the audit trail")
	}
	if ok, _ := perms.HasPermission(ctx, "Intern", PermPayrollRead); ok {
		t.Fatal("unknown role must have no permissions")
	}
}
