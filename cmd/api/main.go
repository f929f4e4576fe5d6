package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Dan9191/bank-cards/internal/auth"
	"github.com/Dan9191/bank-cards/internal/cache"
	"github.com/Dan9191/bank-cards/internal/config"
	"github.com/Dan9191/bank-cards/internal/handler"
	"github.com/Dan9191/bank-cards/internal/metrics"
	"github.com/Dan9191/bank-cards/internal/middleware"
	"github.com/Dan9191/bank-cards/internal/repository"
	"github.com/Dan9191/bank-cards/internal/scheduler"
	"github.com/Dan9191/bank-cards/internal/service"
	"github.com/Dan9191/bank-cards/internal/utils"
	"github.com/Dan9191/bank-cards/internal/utils/email"
)

const shutdownTimeout = 15 * time.Second

type stores struct {
	cards  service.CardStore
	users  service.UserStore
	tokens service.RefreshTokenStore
	tx     service.TxRunner
	close  func() error
}

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}
	defer st.close()

	cipher, err := utils.NewCardCipher(cfg.EncryptionKey, cfg.HMACSecret)
	if err != nil {
		logger.Fatalf("Failed to initialize card cipher: %v", err)
	}

	var cardCache service.CardCache
	if cfg.RedisAddr != "" {
		client, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		cardCache = cache.NewCardCache(client, cfg.CardCacheTTL, logger)
		logger.WithField("addr", cfg.RedisAddr).Info("Card cache enabled")
	}

	var notifier service.Notifier
	if cfg.SMTPEnabled() {
		notifier = email.NewSender(cfg, logger)
		logger.WithField("admin_email", cfg.AdminEmail).Info("Block request notifications enabled")
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize layers
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	status := service.NewStatusMachine(st.cards, st.tx, cardCache, logger, m)
	transfer := service.NewTransferEngine(st.cards, st.tx, cardCache, logger, m)
	cardSvc := service.NewCardService(st.cards, status, transfer, cipher, cardCache, notifier, logger)
	adminSvc := service.NewAdminService(st.cards, st.users, st.tx, status, cipher, cardCache, logger)
	authSvc := service.NewAuthService(st.users, st.tokens, tokens, cfg.RefreshTokenTTL, logger)

	if err := authSvc.SeedAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Fatalf("Failed to seed admin: %v", err)
	}

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RecoverMiddleware(logger), middleware.LoggingMiddleware(logger))
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	handler.NewHandler(cardSvc, adminSvc, authSvc, logger).Routes(r, tokens)

	var sweeper *scheduler.ExpirySweeper
	if cfg.ExpirySweepSchedule != "" {
		sweeper, err = scheduler.NewExpirySweeper(cfg.ExpirySweepSchedule, status, logger)
		if err != nil {
			logger.Fatalf("Failed to configure expiry sweep: %v", err)
		}
		sweeper.Start()
		logger.WithField("schedule", cfg.ExpirySweepSchedule).Info("Expiry sweep scheduled")
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if sweeper != nil {
			sweeper.Stop(shutdownCtx)
		}
		return server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Errorf("Stopped with error: %v", err)
		return
	}
	logger.Info("Server stopped")
}

func openStores(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		mem := repository.NewMemoryStore(cfg.TxTimeout, cfg.LockTimeout)
		return &stores{
			cards:  mem.Cards(),
			users:  mem.Users(),
			tokens: mem.Tokens(),
			tx:     mem,
			close:  func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &stores{
		cards:  repository.NewCardRepository(db),
		users:  repository.NewUserRepository(db),
		tokens: repository.NewTokenRepository(db),
		tx:     repository.NewTransactor(db, cfg.TxTimeout, cfg.LockTimeout),
		close:  db.Close,
	}, nil
}
