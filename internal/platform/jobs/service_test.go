package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"payroll/internal/domain/payroll"
)

type fakeRunner struct {
	periods chan payroll.Period
	err     error
}

func (f *fakeRunner) RunMonth(_ context.Context, period payroll.Period) (payroll.RunResult, error) {
	f.periods <- period
	return payroll.RunResult{Period: period, Skipped: []int64{4}}, f.err
}

type statusRecorder struct {
	statuses []string
}

func (r *statusRecorder) ObserveRun(status string) {
	r.statuses = append(r.statuses, status)
}

func TestScheduledPeriodIsPreviousMonth(t *testing.T) {
	s := New(nil, &fakeRunner{}, "0 2 1 * *")
	s.now = func() time.Time { return time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC) }
	if got := s.ScheduledPeriod(); got != (payroll.Period{Month: 12, Year: 2023}) {
		t.Fatalf("expected 12/2023, got %+v", got)
	}
}

func TestRunPayrollReportsStatus(t *testing.T) {
	runner := &fakeRunner{periods: make(chan payroll.Period, 2)}
	rec := &statusRecorder{}
	s := New(nil, runner, "")
	s.Observer = rec

	result, err := s.RunPayroll(context.Background(), payroll.Period{Month: 5, Year: 2024})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Period.Month != 5 || len(result.Skipped) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	runner.err = errors.New("boom")
	if _, err := s.RunPayroll(context.Background(), payroll.Period{Month: 6, Year: 2024}); err == nil {
		t.Fatal("expected runner error")
	}
	if len(rec.statuses) != 2 || rec.statuses[0] != StatusCompleted || rec.statuses[1] != StatusFailed {
		t.Fatalf("unexpected statuses %v", rec.statuses)
	}
}

func TestScheduledRunGoesThroughWorker(t *testing.T) {
	runner := &fakeRunner{periods: make(chan payroll.Period, 1)}
	s := New(nil, runner, "")
	s.now = func() time.Time { return time.Date(2024, 7, 1, 2, 0, 0, 0, time.UTC) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.enqueueScheduledRun()

	select {
	case period := <-runner.periods:
		if period != (payroll.Period{Month: 6, Year: 2024}) {
			t.Fatalf("expected 6/2024, got %+v", period)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled run did not execute")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := New(nil, &fakeRunner{}, "not a schedule")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err == nil {
		t.Fatal("expected schedule parse error")
	}
}

type idRow struct{ id int64 }

func (r idRow) Scan(dest ...any) error {
	*dest[0].(*int64) = r.id
	return nil
}

type bookkeepingDB struct {
	mu       sync.Mutex
	statuses []string
	ctxErrs  []error
}

func (b *bookkeepingDB) QueryRow(ctx context.Context, _ string, _ ...any) pgx.Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctxErrs = append(b.ctxErrs, ctx.Err())
	return idRow{id: 41}
}

func (b *bookkeepingDB) Exec(ctx context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctxErrs = append(b.ctxErrs, ctx.Err())
	b.statuses = append(b.statuses, args[0].(string))
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func TestRunIsClosedAfterCancellation(t *testing.T) {
	db := &bookkeepingDB{}
	s := New(db, &fakeRunner{}, "")

	ctx, cancel := context.WithCancel(context.Background())
	_, err := s.RunNow(ctx, JobPayrollRun, func(ctx context.Context) (any, error) {
		cancel()
		return nil, ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation from the job, got %v", err)
	}

	if len(db.statuses) != 1 || db.statuses[0] != StatusFailed {
		t.Fatalf("expected the run to be closed as failed, got %v", db.statuses)
	}
	for i, ctxErr := range db.ctxErrs {
		if ctxErr != nil {
			t.Fatalf("bookkeeping statement %d ran on a cancelled context: %v", i, ctxErr)
		}
	}
}
