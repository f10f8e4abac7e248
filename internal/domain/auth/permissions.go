package auth

import "context"

const (
	RoleHR          = "HR"
	RoleManager     = "Manager"
	RoleSystemAdmin = "SystemAdmin"
)

const (
	PermEmployeesRead  = "core.employees.read"
	PermEmployeesWrite = "core.employees.write"
	PermPayrollRead    = "payroll.read"
	PermPayrollWrite   = "payroll.write"
	PermPayrollRun     = "payroll.run"
	PermAuditRead      = "audit.read"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermPayrollRead,
	PermPayrollWrite,
	PermPayrollRun,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleManager: {
		PermEmployeesRead,
		PermPayrollRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermPayrollRead,
		PermPayrollWrite,
		PermPayrollRun,
	},
	RoleSystemAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermPayrollRead,
		PermPayrollWrite,
		PermPayrollRun,
		PermAuditRead,
	},
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}

func KnownRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
