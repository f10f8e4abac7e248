package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/robfig/cron/v3"

	"payroll/internal/domain/payroll"
)

const JobPayrollRun = "payroll_run"

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type PayrollRunner interface {
	RunMonth(ctx context.Context, period payroll.Period) (payroll.RunResult, error)
}

type RunObserver interface {
	ObserveRun(status string)
}

// DB is the part of pgxpool.Pool used to record runs in job_runs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Service runs payroll jobs on a worker goroutine, either on the cron schedule or on demand,
// and records every run in job_runs when a database is attached.
type Service struct {
	DB       DB
	Observer RunObserver
	runner   PayrollRunner
	schedule string
	now      func() time.Time
	queue    chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db DB, runner PayrollRunner, schedule string) *Service {
	return &Service{
		DB:       db,
		runner:   runner,
		schedule: schedule,
		now:      time.Now,
		queue:    make(chan job, 16),
	}
}

// Start launches the worker and, when a schedule is configured, the cron trigger. Both stop
// with ctx.
func (s *Service) Start(ctx context.Context) error {
	go s.worker(ctx)
	if s.schedule == "" {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.enqueueScheduledRun); err != nil {
		return err
	}
	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	slog.Info("payroll run scheduled", "schedule", s.schedule)
	return nil
}

// ScheduledPeriod is the month a scheduled run pays: the one before the current month.
func (s *Service) ScheduledPeriod() payroll.Period {
	return payroll.PeriodOf(s.now()).Previous()
}

func (s *Service) enqueueScheduledRun() {
	period := s.ScheduledPeriod()
	s.Enqueue(JobPayrollRun, func(ctx context.Context) (any, error) {
		return s.runner.RunMonth(ctx, period)
	})
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// RunPayroll runs the monthly payroll for period synchronously.
func (s *Service) RunPayroll(ctx context.Context, period payroll.Period) (payroll.RunResult, error) {
	var result payroll.RunResult
	_, err := s.RunNow(ctx, JobPayrollRun, func(ctx context.Context) (any, error) {
		var err error
		result, err = s.runner.RunMonth(ctx, period)
		return result, err
	})
	return result, err
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	// job_runs bookkeeping outlives cancellation so a run interrupted by shutdown is still closed.
	bookCtx := context.WithoutCancel(ctx)
	var runID int64
	if s.DB != nil {
		if err := s.DB.QueryRow(bookCtx, `
      INSERT INTO job_runs (job_type, status)
      VALUES ($1,$2)
      RETURNING id
    `, j.Type, "running").Scan(&runID); err != nil {
			slog.Warn("job run insert failed", "err", err)
		}
	}

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
	}
	if s.Observer != nil {
		s.Observer.ObserveRun(status)
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != 0 {
		if _, updErr := s.DB.Exec(bookCtx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}
