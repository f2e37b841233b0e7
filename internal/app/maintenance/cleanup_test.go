package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	testutil "github.com/charlesng35/bizsuite/internal/database/testutil"
	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/monitoring"
	"github.com/charlesng35/bizsuite/internal/services"
)

func TestCleanerRunOncePrunesAuditLogs(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, auditSvc.Log(ctx, services.AuditEntry{Action: "old.action", Result: "success"}))
	require.NoError(t, auditSvc.Log(ctx, services.AuditEntry{Action: "fresh.action", Result: "success"}))

	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("action = ?", "old.action").
		Update("created_at", time.Now().AddDate(0, 0, -10)).Error)

	c := NewCleaner(auditSvc,
		WithAuditRetentionDays(7),
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
	)
	require.NoError(t, c.RunOnce(ctx))

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, "fresh.action", logs[0].Action)
}

func TestCleanerRunOnceCollectsErrors(t *testing.T) {
	tracker := monitoring.NewJobTracker()
	c := NewCleaner(failingPruner{err: errors.New("boom")}, WithRunRecorder(tracker))
	require.ErrorContains(t, c.RunOnce(context.Background()), "boom")

	jobs := tracker.Jobs()
	require.Len(t, jobs, 1)
	require.Equal(t, "audit_retention", jobs[0].Job)
	require.Equal(t, "boom", jobs[0].LastError)
}

func TestCleanerDisabledWhenRetentionZero(t *testing.T) {
	pruner := &countingPruner{}
	c := NewCleaner(pruner, WithAuditRetentionDays(0))

	require.NoError(t, c.RunOnce(context.Background()))
	require.NoError(t, c.Start())
	require.Zero(t, pruner.calls)
	require.Empty(t, c.cron.Entries())
}

func TestCleanerStartRegistersAuditJob(t *testing.T) {
	c := NewCleaner(&countingPruner{}, WithAuditSchedule("@hourly"))
	require.NoError(t, c.Start())
	defer c.Stop()

	require.Len(t, c.cron.Entries(), 1)
}

func TestCleanerStartRejectsInvalidSchedule(t *testing.T) {
	c := NewCleaner(&countingPruner{}, WithAuditSchedule("not a schedule"))
	require.Error(t, c.Start())
}

type failingPruner struct {
	err error
}

func (p failingPruner) CleanupOlderThan(context.Context, int) (int64, error) {
	return 0, p.err
}

type countingPruner struct {
	calls int
}

func (p *countingPruner) CleanupOlderThan(context.Context, int) (int64, error) {
	p.calls++
	return 0, nil
}
