package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charlesng35/bizsuite/internal/app"
	"github.com/charlesng35/bizsuite/internal/models"
)

func testConfig(t *testing.T) *app.Config {
	t.Helper()

	cfg := &app.Config{
		Server:   app.ServerConfig{Port: 8000},
		Database: app.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "bizsuite.sqlite")},
		Auth: app.AuthConfig{
			JWT:       app.JWTSettings{Secret: "bootstrap-secret", Issuer: "bizsuite-test"},
			Bootstrap: app.BootstrapSettings{Username: "root", Password: "change-me-now"},
		},
		Authz:       app.AuthzConfig{ManagerEntityAccess: true, ModuleCacheSize: 8},
		Maintenance: app.MaintenanceConfig{AuditRetentionDays: 30, AuditSchedule: "@daily"},
		Monitoring:  app.MonitoringConfig{Prometheus: app.PrometheusConfig{Enabled: true}},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestBootstrapRuntime(t *testing.T) {
	cfg := testConfig(t)
	log := zap.NewNop()

	stack, err := bootstrapRuntime(context.Background(), cfg, log)
	require.NoError(t, err)
	require.NotNil(t, stack.Router)

	var admin models.User
	require.NoError(t, stack.DB.Where("username = ?", "root").First(&admin).Error)
	require.Equal(t, "Admin", admin.Role)
	require.Equal(t, "root@localhost", admin.Email)

	var modules int64
	require.NoError(t, stack.DB.Model(&models.Module{}).Count(&modules).Error)
	require.Equal(t, int64(19), modules)

	rec := httptest.NewRecorder()
	stack.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	stack.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, stack.Shutdown(context.Background(), log))
	require.Nil(t, stack.DB)
}

func TestBootstrapRuntimeIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	log := zap.NewNop()

	first, err := bootstrapRuntime(context.Background(), cfg, log)
	require.NoError(t, err)
	require.NoError(t, first.Shutdown(context.Background(), log))

	second, err := bootstrapRuntime(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Shutdown(context.Background(), log) })

	var admins int64
	require.NoError(t, second.DB.Model(&models.User{}).Where("role = ?", "Admin").Count(&admins).Error)
	require.Equal(t, int64(1), admins)
}

func TestBootstrapRuntimeRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	require.Nil(t, stack)
}

func TestLoadApplicationConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: 9191\n"), 0o600))

	cfg, err := loadApplicationConfig(dir)
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)

	cfg, err = loadApplicationConfig(file)
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)

	_, err = loadApplicationConfig(filepath.Join(dir, "missing"))
	require.ErrorContains(t, err, "does not exist")
}
