package payrollhandler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"payroll/internal/domain/audit"
	"payroll/internal/domain/auth"
	"payroll/internal/domain/core"
	"payroll/internal/domain/payroll"
	"payroll/internal/transport/http/api"
	"payroll/internal/transport/http/middleware"
	"payroll/internal/transport/http/shared"
)

type PayslipService interface {
	Issue(ctx context.Context, employeeID int64, month, year int) (payroll.Payslip, error)
	Get(ctx context.Context, payslipID int64) (payroll.Payslip, error)
	ListForEmployee(ctx context.Context, employeeID int64) ([]payroll.Payslip, error)
	ListForPeriod(ctx context.Context, month, year int) ([]payroll.Payslip, error)
}

type EmployeeLookup interface {
	LookupEmployee(ctx context.Context, id int64) (core.Employee, error)
}

type Documents interface {
	PDF(emp core.Employee, p payroll.Payslip) ([]byte, error)
}

type PayrollRunner interface {
	RunPayroll(ctx context.Context, period payroll.Period) (payroll.RunResult, error)
}

type Handler struct {
	Payslips  PayslipService
	Employees EmployeeLookup
	Documents Documents
	Runs      PayrollRunner
	Perms     middleware.PermissionStore
	Audit     shared.Auditor
}

func NewHandler(payslips PayslipService, employees EmployeeLookup, documents Documents, runs PayrollRunner, perms middleware.PermissionStore) *Handler {
	return &Handler{Payslips: payslips, Employees: employees, Documents: documents, Runs: runs, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermPayrollRead, h.Perms)
	write := middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)
	run := middleware.RequirePermission(auth.PermPayrollRun, h.Perms)

	r.Route("/payslips", func(r chi.Router) {
		r.With(write).Post("/", h.handleIssue)
		r.With(read).Get("/", h.handleListForPeriod)
		r.With(read).Get("/{payslipID}", h.handleGet)
		r.With(read).Get("/{payslipID}/pdf", h.handlePDF)
	})
	r.With(read).Get("/employees/{employeeID}/payslips", h.handleListForEmployee)
	r.With(run).Post("/payroll/runs", h.handleRun)
}

type issueRequest struct {
	EmployeeID int64 `json:"employeeId" validate:"required,gt=0"`
	Month      int   `json:"month"`
	Year       int   `json:"year"`
}

type runRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	var payload issueRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	payslip, err := h.Payslips.Issue(r.Context(), payload.EmployeeID, payload.Month, payload.Year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action:     audit.ActionPayslipIssue,
		EntityType: audit.EntityPayslip,
		EntityID:   strconv.FormatInt(payslip.ID, 10),
		After:      payslip,
	})
	w.Header().Set("Location", fmt.Sprintf("/api/v1/payslips/%d", payslip.ID))
	api.Created(w, payslip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "payslipID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "payslip id must be a positive integer", middleware.GetRequestID(r.Context()))
		return
	}
	payslip, err := h.Payslips.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, payslip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "payslipID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "payslip id must be a positive integer", middleware.GetRequestID(r.Context()))
		return
	}
	payslip, err := h.Payslips.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	emp, err := h.Employees.LookupEmployee(r.Context(), payslip.EmployeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := h.Documents.PDF(emp, payslip)
	if err != nil {
		slog.Error("payslip pdf failed", "payslipId", payslip.ID, "requestId", middleware.GetRequestID(r.Context()), "err", err)
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}

	filename := fmt.Sprintf("payslip-%d-%04d-%02d.pdf", payslip.EmployeeID, payslip.Year, payslip.Month)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *Handler) handleListForEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(r, "employeeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", middleware.GetRequestID(r.Context()))
		return
	}
	payslips, err := h.Payslips.ListForEmployee(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, payslips, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListForPeriod(w http.ResponseWriter, r *http.Request) {
	validator := shared.NewValidator()
	month, _ := validator.QueryInt(r, "month")
	year, _ := validator.QueryInt(r, "year")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	payslips, err := h.Payslips.ListForPeriod(r.Context(), month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, payslips, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	var payload runRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Runs.RunPayroll(r.Context(), payroll.Period{Month: payload.Month, Year: payload.Year})
	if err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Entry{
		Action:     audit.ActionPayrollRun,
		EntityType: audit.EntityPayrollRun,
		EntityID:   fmt.Sprintf("%04d-%02d", result.Period.Year, result.Period.Month),
		After:      map[string]int{"issued": len(result.Issued), "skipped": len(result.Skipped), "failed": len(result.Failed)},
	})
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
	case errors.Is(err, payroll.ErrInvalidInput):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_input", err.Error(), requestID)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found or inactive", requestID)
	case errors.Is(err, payroll.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "payslip_not_found", "payslip not found", requestID)
	case errors.Is(err, payroll.ErrDuplicatePayslip):
		api.Fail(w, http.StatusConflict, "payslip_exists", "a payslip already exists for this employee and period", requestID)
	case errors.Is(err, payroll.ErrStorage):
		slog.Error("payroll storage failure", "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusServiceUnavailable, "storage_error", "payroll store unavailable", requestID)
	default:
		slog.Error("payroll request failed", "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
