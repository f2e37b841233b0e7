package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/bizsuite/pkg/logger"
	"github.com/charlesng35/bizsuite/pkg/metrics"
)

const (
	defaultAuditRetentionDays = 90
	defaultAuditSpec          = "@daily"

	jobAuditRetention = "audit_retention"
)

// AuditPruner removes audit records older than the retention window.
type AuditPruner interface {
	CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error)
}

// RunRecorder receives the outcome of every job execution.
type RunRecorder interface {
	RecordRun(job string, err error, duration time.Duration)
}

// Cleaner runs background housekeeping on a cron schedule.
type Cleaner struct {
	audit     AuditPruner
	recorder  RunRecorder
	cron      *cron.Cron
	log       *zap.Logger
	retention int

	auditSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithRunRecorder reports job outcomes, e.g. to the readiness tracker.
func WithRunRecorder(r RunRecorder) Option {
	return func(cleaner *Cleaner) {
		cleaner.recorder = r
	}
}

// WithAuditRetentionDays adjusts how long audit logs are retained. Zero disables pruning.
func WithAuditRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days >= 0 {
			cleaner.retention = days
		}
	}
}

// WithAuditSchedule overrides the cron expression for audit retention.
func WithAuditSchedule(expr string) Option {
	return func(cleaner *Cleaner) {
		if expr != "" {
			cleaner.auditSchedule = expr
		}
	}
}

// NewCleaner constructs a Cleaner. A nil pruner disables the audit job.
func NewCleaner(audit AuditPruner, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		audit:         audit,
		retention:     defaultAuditRetentionDays,
		auditSchedule: defaultAuditSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

func (c *Cleaner) auditEnabled() bool {
	return c.audit != nil && c.retention > 0
}

// Start registers cleanup jobs and launches the scheduler when at least one job is enabled.
func (c *Cleaner) Start() error {
	if !c.auditEnabled() {
		return nil
	}

	if _, err := c.cron.AddFunc(c.auditSchedule, func() {
		if err := c.pruneAudit(context.Background()); err != nil {
			c.log.Warn("audit cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the scheduler. The returned context is done once running jobs complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every enabled cleanup routine sequentially.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	if c.auditEnabled() {
		errs = multierr.Append(errs, c.pruneAudit(ctx))
	}
	return errs
}

func (c *Cleaner) pruneAudit(ctx context.Context) error {
	if c.audit == nil {
		return errors.New("maintenance: audit pruner is not configured")
	}

	start := time.Now()
	removed, err := c.audit.CleanupOlderThan(ctx, c.retention)
	if c.recorder != nil {
		c.recorder.RecordRun(jobAuditRetention, err, time.Since(start))
	}
	if err != nil {
		metrics.MaintenanceRuns.WithLabelValues(jobAuditRetention, "error").Inc()
		return err
	}

	metrics.MaintenanceRuns.WithLabelValues(jobAuditRetention, "success").Inc()
	if removed > 0 {
		c.log.Info("pruned audit logs", zap.Int64("removed", removed), zap.Int("retention_days", c.retention))
	}
	return nil
}
