package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/auth"
	"github.com/Leganyst/clinic-booking/internal/config"
	"github.com/Leganyst/clinic-booking/internal/db"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
	"github.com/Leganyst/clinic-booking/internal/service"
)

func main() {
	root := &cobra.Command{
		Use:          "clinic-booking",
		Short:        "Clinic appointment booking backend",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedAdminCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, gormDB, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(log, gormDB)

			log.Info("migrate.done", zap.String("driver", cfg.DB.Driver))
			return nil
		},
	}
}

func seedAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the administrator account from ADMIN_* settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, gormDB, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(log, gormDB)

			identity := service.NewIdentityService(
				repository.NewStore(gormDB),
				auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
				log,
			)
			created, err := identity.EnsureAdmin(cmd.Context(), cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FullName)
			if err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created=%t\n", cfg.Admin.Email, created)
			return nil
		},
	}
}

// bootstrap — общий старт всех команд: конфиг, логгер, БД, миграции.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	gormDB, err := openDB(&cfg.DB, log, model.AutoMigrate)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, gormDB, nil
}

// openDB подключается к БД и мигрирует схему. При ошибке миграции
// соединение закрывается.
func openDB(cfg *config.DBConfig, log *zap.Logger, migrate func(*gorm.DB) error) (*gorm.DB, error) {
	gormDB, err := db.NewGormDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := migrate(gormDB); err != nil {
		closeDB(log, gormDB)
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return gormDB, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.IsLocal() {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.App.LogLevel, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	log, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("env", string(cfg.App.Env))), nil
}

func closeDB(log *zap.Logger, gormDB *gorm.DB) {
	defer func() { _ = log.Sync() }()
	sqlDB, err := gormDB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("db.close_failed", zap.Error(err))
	}
}

