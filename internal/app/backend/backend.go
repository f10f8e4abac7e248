package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"payroll/internal/domain/core"
	"payroll/internal/domain/payroll"
	"payroll/internal/platform/cache"
	"payroll/internal/platform/config"
	cryptoutil "payroll/internal/platform/crypto"
	"payroll/internal/platform/db"
	"payroll/internal/platform/events"
	"payroll/internal/platform/jobs"
	"payroll/internal/platform/metrics"
)

// Backend is the payroll engine with every configured side channel attached: Redis cache,
// Kafka events, metrics and job_runs bookkeeping. The HTTP server and payrollctl both issue
// payslips through it.
type Backend struct {
	DB            *db.Pool
	Metrics       *metrics.Collector
	EmployeeStore *core.Store
	Employees     *core.Service
	Publisher     payroll.Publisher
	Issuer        *payroll.Issuer
	Runner        *payroll.Runner
	Jobs          *jobs.Service
	Archive       *payroll.Archive

	redis *redis.Client
	kafka *kafka.Writer
}

// Open connects to Postgres and, when configured, Redis, then assembles the backend. Migrations
// and seed data run as cfg asks.
func Open(ctx context.Context, cfg config.Config) (*Backend, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, db.Migrations()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			pool.Close()
			return nil, err
		}
	}

	b, err := Assemble(cfg, pool, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		pool.Close()
		return nil, err
	}
	return b, nil
}

// Assemble wires the services over already opened connections. pool and rdb may be nil; without
// a pool nothing is stored and runs are not recorded.
func Assemble(cfg config.Config, pool *db.Pool, rdb *redis.Client) (*Backend, error) {
	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}
	b := &Backend{DB: pool, Metrics: metrics.New(), redis: rdb}

	b.EmployeeStore = core.NewStore(pool)
	b.Employees = core.NewService(b.EmployeeStore)

	var payslips payroll.PayslipRepository = payroll.NewStore(pool)
	if rdb != nil {
		payslips = cache.NewPayslips(payslips, rdb, cfg.PayslipCacheTTL)
	}

	opts := []payroll.Option{payroll.WithObserver(b.Metrics)}
	if len(cfg.KafkaBrokers) > 0 {
		b.kafka = events.NewWriter(cfg.KafkaBrokers)
		b.Publisher = events.NewPayslipPublisher(b.kafka, cfg.KafkaPayslipTopic)
		opts = append(opts, payroll.WithPublisher(b.Publisher))
	}
	b.Issuer = payroll.NewIssuer(b.EmployeeStore, payslips, opts...)
	b.Runner = payroll.NewRunner(b.Issuer, b.EmployeeStore)

	var runs jobs.DB
	if pool != nil {
		runs = pool
	}
	b.Jobs = jobs.New(runs, b.Runner, cfg.PayrollRunSchedule)
	b.Jobs.Observer = b.Metrics
	b.Archive = payroll.NewArchive(cfg.PayslipDir, crypto)
	return b, nil
}

// Redis is the cache client, or nil when no cache is configured.
func (b *Backend) Redis() *redis.Client {
	return b.redis
}

func (b *Backend) Close() {
	if b.kafka != nil {
		if err := b.kafka.Close(); err != nil {
			slog.Warn("kafka writer close failed", "err", err)
		}
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.DB != nil {
		b.DB.Close()
	}
}
