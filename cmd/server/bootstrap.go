package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/bizsuite/internal/api"
	"github.com/charlesng35/bizsuite/internal/app"
	"github.com/charlesng35/bizsuite/internal/app/maintenance"
	iauth "github.com/charlesng35/bizsuite/internal/auth"
	"github.com/charlesng35/bizsuite/internal/database"
	"github.com/charlesng35/bizsuite/pkg/logger"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB      *gorm.DB
	Deps    api.Dependencies
	Cleaner *maintenance.Cleaner
	Router  *gin.Engine
}

// bootstrapRuntime initialises the database, authorization engine, background jobs and router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (stack *runtimeStack, err error) {
	stack = &runtimeStack{}
	defer func() {
		if err != nil {
			_ = stack.Shutdown(context.Background(), log)
			stack = nil
		}
	}()

	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	if cfg.Authz.ManagerEntityAccess {
		log.Warn("managers are granted access to every entity record; set authz.manager_entity_access=false to restrict")
	}

	stack.Deps, err = api.Wire(stack.DB, jwtSvc, api.EngineOptions{
		ManagerEntityAccess: cfg.Authz.ManagerEntityAccess,
		ModuleCacheSize:     cfg.Authz.ModuleCacheSize,
		MetricsEnabled:      cfg.Monitoring.Prometheus.Enabled,
		Logger:              logger.WithModule("authz"),
	})
	if err != nil {
		return nil, fmt.Errorf("wire authorization engine: %w", err)
	}

	admin := cfg.Auth.BootstrapAdmin()
	if admin.Username != "" {
		created, err := stack.Deps.Users.EnsureBootstrapAdmin(ctx, admin)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			log.Info("bootstrap administrator created", zap.String("username", admin.Username))
		}
	}

	stack.Cleaner = maintenance.NewCleaner(stack.Deps.Audit,
		maintenance.WithAuditRetentionDays(cfg.Maintenance.AuditRetentionDays),
		maintenance.WithAuditSchedule(cfg.Maintenance.AuditSchedule),
		maintenance.WithRunRecorder(stack.Deps.Jobs),
	)
	if err := stack.Cleaner.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	stack.Router, err = api.NewRouter(stack.Deps)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	return stack, nil
}

// Shutdown stops background jobs and releases the database handle.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) error {
	if s == nil {
		return nil
	}

	if s.Cleaner != nil {
		<-s.Cleaner.Stop().Done()
		s.Cleaner = nil
	}

	if s.DB != nil {
		err := closeDatabase(s.DB)
		s.DB = nil
		if err != nil {
			log.Warn("failed to close database", zap.Error(err))
			return err
		}
	}
	return nil
}

func initialiseDatabase(ctx context.Context, cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.DatabaseConnConfig()
	dbCfg.Driver = strings.ToLower(strings.TrimSpace(dbCfg.Driver))

	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	seeded, err := database.AutoMigrateAndSeed(ctx, db)
	if err != nil {
		_ = closeDatabase(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	logger.WithModule("database").Info("database connected",
		zap.String("driver", dbCfg.Driver),
		zap.Bool("catalog_seeded", seeded),
	)

	return db, nil
}

func closeDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("obtain sql db: %w", err)
	}
	return sqlDB.Close()
}
