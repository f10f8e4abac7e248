package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"payroll/internal/domain/payroll"
)

func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func PayslipKey(id int64) string {
	return fmt.Sprintf("payroll:payslip:%d", id)
}

// Payslips is a read-through cache in front of a payslip repository. Stored payslips never
// change, so entries are never invalidated; they only expire. Redis failures degrade to the
// underlying repository.
type Payslips struct {
	next payroll.PayslipRepository
	rdb  redis.Cmdable
	ttl  time.Duration
}

var _ payroll.PayslipRepository = (*Payslips)(nil)

func NewPayslips(next payroll.PayslipRepository, rdb redis.Cmdable, ttl time.Duration) *Payslips {
	return &Payslips{next: next, rdb: rdb, ttl: ttl}
}

func (c *Payslips) ExistsForPeriod(ctx context.Context, employeeID int64, month, year int) (bool, error) {
	return c.next.ExistsForPeriod(ctx, employeeID, month, year)
}

func (c *Payslips) Save(ctx context.Context, draft payroll.PayslipDraft) (payroll.Payslip, error) {
	p, err := c.next.Save(ctx, draft)
	if err != nil {
		return p, err
	}
	c.store(ctx, p)
	return p, nil
}

func (c *Payslips) FindByID(ctx context.Context, id int64) (payroll.Payslip, bool, error) {
	key := PayslipKey(id)
	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var p payroll.Payslip
		if jsonErr := json.Unmarshal([]byte(cached), &p); jsonErr == nil {
			return p, true, nil
		}
		slog.Warn("payslip cache entry unreadable", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("payslip cache read failed", "key", key, "err", err)
	}

	p, found, err := c.next.FindByID(ctx, id)
	if err != nil || !found {
		return p, found, err
	}
	c.store(ctx, p)
	return p, true, nil
}

func (c *Payslips) FindByEmployee(ctx context.Context, employeeID int64) ([]payroll.Payslip, error) {
	return c.next.FindByEmployee(ctx, employeeID)
}

func (c *Payslips) FindByPeriod(ctx context.Context, month, year int) ([]payroll.Payslip, error) {
	return c.next.FindByPeriod(ctx, month, year)
}

func (c *Payslips) store(ctx context.Context, p payroll.Payslip) {
	data, err := json.Marshal(p)
	if err != nil {
		slog.Warn("payslip cache encode failed", "payslipId", p.ID, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, PayslipKey(p.ID), string(data), c.ttl).Err(); err != nil {
		slog.Warn("payslip cache write failed", "payslipId", p.ID, "err", err)
	}
}
