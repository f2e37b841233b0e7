package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/bizsuite/internal/auth"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "console", cfg.Server.LogFormat)
	require.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "disable", cfg.Database.Options["sslmode"])

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)
	require.Equal(t, "root", cfg.Auth.Bootstrap.Username)

	require.False(t, cfg.Authz.ManagerEntityAccess)
	require.Equal(t, 16, cfg.Authz.ModuleCacheSize)

	require.Equal(t, 30, cfg.Maintenance.AuditRetentionDays)
	require.Equal(t, "0 3 * * *", cfg.Maintenance.AuditSchedule)
	require.False(t, cfg.Monitoring.Prometheus.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL)
	require.True(t, cfg.Authz.ManagerEntityAccess)
	require.Equal(t, 64, cfg.Authz.ModuleCacheSize)
	require.Equal(t, 90, cfg.Maintenance.AuditRetentionDays)
	require.Equal(t, "@daily", cfg.Maintenance.AuditSchedule)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("BIZSUITE_SERVER_PORT", "7070")
	t.Setenv("BIZSUITE_AUTHZ_MANAGER_ENTITY_ACCESS", "false")
	t.Setenv("BIZSUITE_AUTH_JWT_ACCESS_TOKEN_TTL", "1h")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 7070, cfg.Server.Port)
	require.False(t, cfg.Authz.ManagerEntityAccess)
	require.Equal(t, time.Hour, cfg.Auth.JWT.TTL)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 0}}
	require.Error(t, cfg.Validate())

	cfg.Server.Port = 8000
	cfg.Maintenance.AuditRetentionDays = -1
	require.Error(t, cfg.Validate())

	cfg.Maintenance.AuditRetentionDays = 0
	cfg.Auth.Bootstrap = BootstrapSettings{Username: "admin", Password: "short"}
	require.ErrorContains(t, cfg.Validate(), "bootstrap.password")

	cfg.Auth.Bootstrap.Password = "long-enough"
	require.NoError(t, cfg.Validate())
}

func TestJWTServiceConfigDefaultsTTL(t *testing.T) {
	cfg := AuthConfig{JWT: JWTSettings{Secret: "s", Issuer: "bizsuite"}}
	jwtCfg := cfg.JWTServiceConfig()

	require.Equal(t, auth.DefaultAccessTokenTTL, jwtCfg.AccessTokenTTL)
	require.Equal(t, "bizsuite", jwtCfg.Issuer)
}

func TestDatabaseConnConfig(t *testing.T) {
	cfg := DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, Username: "crm", Password: "pw", Name: "crm"}
	conn := cfg.DatabaseConnConfig()

	require.Equal(t, "mysql", conn.Driver)
	require.Equal(t, "crm", conn.User)
	require.Equal(t, 3306, conn.Port)
}

func TestBootstrapAdminTrimsInput(t *testing.T) {
	cfg := AuthConfig{Bootstrap: BootstrapSettings{Username: " admin ", Email: " a@b.c ", Password: "pw"}}
	admin := cfg.BootstrapAdmin()

	require.Equal(t, "admin", admin.Username)
	require.Equal(t, "a@b.c", admin.Email)
}
