package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc/reflection"

	"github.com/Leganyst/clinic-booking/internal/auth"
	"github.com/Leganyst/clinic-booking/internal/config"
	"github.com/Leganyst/clinic-booking/internal/grpcserver"
	"github.com/Leganyst/clinic-booking/internal/httpapi"
	"github.com/Leganyst/clinic-booking/internal/notify"
	"github.com/Leganyst/clinic-booking/internal/repository"
	"github.com/Leganyst/clinic-booking/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start REST and gRPC servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}
}

func runServer(ctx context.Context) error {
	// 1. Конфиг, логгер, БД и миграции.
	cfg, log, gormDB, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(log, gormDB)

	// 2. Хранилище и токены.
	store := repository.NewStore(gormDB)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// 3. Каналы доставки уведомлений.
	sink, closeSinks, err := buildSinks(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSinks()

	// 4. Сервисы ядра.
	identity := service.NewIdentityService(store, tokens, log)
	doctors := service.NewDoctorService(store, sink, log)
	appointments := service.NewAppointmentService(store, sink, log)
	payments := service.NewPaymentService(store, log)
	dashboard := service.NewDashboardService(store, cfg.Location(), log)
	notifications := service.NewNotificationService(store, log)

	if _, err := identity.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FullName); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	// 5. REST.
	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(&httpapi.Handler{
		Identity:      identity,
		Doctors:       doctors,
		Appointments:  appointments,
		Payments:      payments,
		Dashboard:     dashboard,
		Notifications: notifications,
		Health:        store,
		Log:           log,
	}, tokens)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 6. gRPC.
	grpcServer := grpcserver.New(log, grpcserver.NewWorkflowServer(appointments, payments, doctors, dashboard))
	if cfg.IsLocal() {
		reflection.Register(grpcServer)
	}
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPC.Addr, err)
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("http.listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http serve: %w", err)
		}
	}()
	go func() {
		log.Info("grpc.listening", zap.String("addr", cfg.GRPC.Addr))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc serve: %w", err)
		}
	}()

	// 7. Грейсфул-шатдаун по сигналу или по падению одного из серверов.
	select {
	case <-ctx.Done():
	case err = <-errCh:
		log.Error("server.failed", zap.Error(err))
	}

	log.Info("server.shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
		log.Warn("http.shutdown_failed", zap.Error(serr))
	}
	grpcServer.GracefulStop()
	return err
}

// buildSinks собирает каналы доставки. Журнал пишется всегда,
// Redis, RabbitMQ и почта включаются настройками.
func buildSinks(ctx context.Context, cfg *config.Config, log *zap.Logger) (notify.Sink, func(), error) {
	sinks := notify.Multi{notify.NewLogSink(log)}
	var closers []func() error

	if cfg.Redis.Enabled {
		client, err := notify.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		sinks = append(sinks, notify.NewRedisSink(client, cfg.Redis.Channel))
		closers = append(closers, client.Close)
	}
	if cfg.RabbitMQ.Enabled {
		s, err := notify.DialAMQP(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq: %w", err)
		}
		sinks = append(sinks, s)
		closers = append(closers, s.Close)
	}
	if cfg.Mail.Enabled {
		dialer := notify.NewMailDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)
		sinks = append(sinks, notify.NewMailSink(dialer, cfg.Mail.From))
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn("notify.close_failed", zap.Error(err))
			}
		}
	}
	return sinks, closeAll, nil
}
