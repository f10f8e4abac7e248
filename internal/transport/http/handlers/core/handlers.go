package corehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"payroll/internal/domain/audit"
	"payroll/internal/domain/auth"
	"payroll/internal/domain/core"
	"payroll/internal/transport/http/api"
	"payroll/internal/transport/http/middleware"
	"payroll/internal/transport/http/shared"
)

type EmployeeService interface {
	AddEmployee(ctx context.Context, emp core.NewEmployee) (int64, error)
	GetEmployee(ctx context.Context, id int64) (core.Employee, error)
	ListEmployees(ctx context.Context) ([]core.Employee, error)
	UpdateSalary(ctx context.Context, id int64, salary core.SalaryComponents) error
	DeactivateEmployee(ctx context.Context, id int64) error
}

type Handler struct {
	Service EmployeeService
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
}

func NewHandler(service EmployeeService, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)
	write := middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)

	r.With(read).Get("/employees", h.handleListEmployees)
	r.With(write).Post("/employees", h.handleCreateEmployee)
	r.With(read).Get("/employees/{employeeID}", h.handleGetEmployee)
	r.With(write).Put("/employees/{employeeID}/salary", h.handleUpdateSalary)
	r.With(write).Delete("/employees/{employeeID}", h.handleDeactivateEmployee)
}

type createEmployeeRequest struct {
	Name        string          `json:"name" validate:"required"`
	Email       string          `json:"email" validate:"required,email"`
	Department  string          `json:"department"`
	Designation string          `json:"designation"`
	JoinDate    string          `json:"joinDate"`
	BaseSalary  decimal.Decimal `json:"baseSalary"`
	HRA         decimal.Decimal `json:"hra"`
	Allowance   decimal.Decimal `json:"allowance"`
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "employeeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", middleware.GetRequestID(r.Context()))
		return
	}
	emp, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload createEmployeeRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)

	validator := shared.NewValidator()
	validator.Struct(payload)
	joinDate, _ := validator.Date("joinDate", payload.JoinDate)
	salary := core.SalaryComponents{BaseSalary: payload.BaseSalary, HRA: payload.HRA, Allowance: payload.Allowance}
	validateSalary(validator, salary)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.AddEmployee(r.Context(), core.NewEmployee{
		Name:        payload.Name,
		Email:       payload.Email,
		Department:  strings.TrimSpace(payload.Department),
		Designation: strings.TrimSpace(payload.Designation),
		JoinDate:    joinDate,
		BaseSalary:  salary.BaseSalary,
		HRA:         salary.HRA,
		Allowance:   salary.Allowance,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action:     audit.ActionEmployeeCreate,
		EntityType: audit.EntityEmployee,
		EntityID:   strconv.FormatInt(id, 10),
		After:      map[string]any{"name": payload.Name, "email": payload.Email, "salary": salary},
	})
	api.Created(w, map[string]int64{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "employeeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", middleware.GetRequestID(r.Context()))
		return
	}
	var salary core.SalaryComponents
	if err := shared.DecodeJSON(r, &salary); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validateSalary(validator, salary)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Service.UpdateSalary(r.Context(), id, salary); err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action:     audit.ActionEmployeeSalary,
		EntityType: audit.EntityEmployee,
		EntityID:   strconv.FormatInt(id, 10),
		After:      salary,
	})
	api.Success(w, map[string]any{"id": id, "salary": salary}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "employeeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.DeactivateEmployee(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action:     audit.ActionEmployeeDeactivate,
		EntityType: audit.EntityEmployee,
		EntityID:   strconv.FormatInt(id, 10),
	})
	w.WriteHeader(http.StatusNoContent)
}

func validateSalary(v *shared.Validator, salary core.SalaryComponents) {
	if salary.BaseSalary.IsNegative() {
		v.Add("baseSalary", "must not be negative")
	}
	if salary.HRA.IsNegative() {
		v.Add("hra", "must not be negative")
	}
	if salary.Allowance.IsNegative() {
		v.Add("allowance", "must not be negative")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, core.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, core.ErrEmployeeExists):
		api.Fail(w, http.StatusConflict, "employee_exists", "employee email already exists", requestID)
	case errors.Is(err, core.ErrInvalidEmployee):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_employee", err.Error(), requestID)
	default:
		slog.Error("employee request failed", "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusServiceUnavailable, "storage_error", "employee store unavailable", requestID)
	}
}
