package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers/get_availability"
	getBookingHandler "github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers/get_booking"
	getCourtBookingsHandler "github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers/get_court_bookings"
	getUserBookingsHandler "github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers/get_user_bookings"
	paymentWebhooksHandler "github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers/payment_webhooks"
	rescheduleBookingHandler "github.com/ahughesmx/ace-booking-system-sub001/internal/api/handlers/reschedule_booking"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/api/middleware"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/config"
	bookingRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/booking"
	courtRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/court"
	courtconfigRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/courtconfig"
	outboxRepo "github.com/ahughesmx/ace-booking-system-sub001/internal/infra/storage/outbox"
	cardpayClient "github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/cardpay"
	prefpayClient "github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/prefpay"
	walletpayClient "github.com/ahughesmx/ace-booking-system-sub001/internal/integrations/walletpay"
	bookingsService "github.com/ahughesmx/ace-booking-system-sub001/internal/service/bookings"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/sweeper"
	"github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/conflicts"
	confirmPaymentUC "github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/confirm_payment"
	createHoldUC "github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/create_hold"
	getAvailabilityUC "github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/get_availability"
	rescheduleBookingUC "github.com/ahughesmx/ace-booking-system-sub001/internal/usecase/reschedule_booking"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/clock"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/dbmetrics"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/logger"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/metrics"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/simpletxmanager"
	"github.com/ahughesmx/ace-booking-system-sub001/pkg/txmanager"
)

func main() {
	// .env is optional; config.toml is the source of truth.
	_ = godotenv.Load()

	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting court booking service...")
	log.Info("Configuration loaded from config.toml")

	norm, err := clock.NewNormalizer(clock.System{}, cfg.Club.Timezone)
	if err != nil {
		log.Fatal("Failed to load club timezone: %v", err)
	}
	log.Info("Club timezone: %s", cfg.Club.Timezone)

	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		// Counters still collect on a private registry; they are just
		// not exported anywhere.
		metricsCollector = metrics.NewWithRegistry(cfg.Metrics.ServiceName, prometheus.NewRegistry())
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Gateway clients
	cardpay := cardpayClient.NewClient(
		cfg.Gateways.Cardpay.URL,
		cfg.Gateways.Cardpay.APIKey,
		time.Duration(cfg.Gateways.Cardpay.Timeout)*time.Second,
		log,
	)
	walletpay := walletpayClient.NewClient(
		cfg.Gateways.Walletpay.URL,
		cfg.Gateways.Walletpay.APIKey,
		time.Duration(cfg.Gateways.Walletpay.Timeout)*time.Second,
		log,
	)
	prefpay := prefpayClient.NewClient(
		cfg.Gateways.Prefpay.URL,
		cfg.Gateways.Prefpay.APIKey,
		time.Duration(cfg.Gateways.Prefpay.Timeout)*time.Second,
		log,
	)
	log.Info("Payment gateway clients initialized (cardpay=%s, walletpay=%s, prefpay=%s)",
		cfg.Gateways.Cardpay.URL, cfg.Gateways.Walletpay.URL, cfg.Gateways.Prefpay.URL)

	// Repositories and the transaction manager, with or without the
	// metrics wrapper.
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var (
		bookingRepository *bookingRepo.Repository
		courtRepository   *courtRepo.Repository
		configRepository  *courtconfigRepo.Repository
		outboxRepository  *outboxRepo.Repository
		txMgr             TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		courtRepository = courtRepo.NewRepository(wrappedDB)
		configRepository = courtconfigRepo.NewRepository(wrappedDB)
		outboxRepository = outboxRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		courtRepository = courtRepo.NewRepository(db)
		configRepository = courtconfigRepo.NewRepository(db)
		outboxRepository = outboxRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	detector := conflicts.NewDetector(bookingRepository, courtRepository, log)

	// Services and use cases
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		courtRepository,
		configRepository,
		outboxRepository,
		txMgr,
		norm,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		courtRepository,
		configRepository,
		norm,
		log,
	)

	createHoldUseCase := createHoldUC.NewUseCase(
		bookingRepository,
		courtRepository,
		configRepository,
		outboxRepository,
		detector,
		txMgr,
		norm,
		time.Duration(cfg.Club.HoldTTLMinutes)*time.Minute,
		log,
	)

	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		bookingRepository,
		outboxRepository,
		detector,
		txMgr,
		cardpay,
		walletpay,
		prefpay,
		norm,
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		courtRepository,
		configRepository,
		outboxRepository,
		detector,
		txMgr,
		norm,
		log,
	)

	// Background jobs: hold expiration sweeper and outbox relay
	holdSweeper := sweeper.NewSweeper(
		bookingRepository,
		outboxRepository,
		txMgr,
		clock.System{},
		metricsCollector,
		uint64(cfg.Club.SweepBatchSize),
		log,
	)
	outboxRelay := sweeper.NewRelay(
		outboxRepository,
		sweeper.NewLogNotifier(log),
		txMgr,
		metricsCollector,
		uint64(cfg.Club.SweepBatchSize),
		log,
	)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal("Failed to create scheduler: %v", err)
	}

	jobCtx := context.Background()
	if _, err := scheduler.NewJob(
		gocron.DurationJob(time.Duration(cfg.Club.SweepIntervalSeconds)*time.Second),
		gocron.NewTask(func() {
			if err := holdSweeper.Run(jobCtx); err != nil {
				log.Error("Sweeper run failed: %v", err)
			}
		}),
	); err != nil {
		log.Fatal("Failed to schedule sweeper: %v", err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(time.Duration(cfg.Club.OutboxFlushSeconds)*time.Second),
		gocron.NewTask(func() {
			if err := outboxRelay.Run(jobCtx); err != nil {
				log.Error("Relay run failed: %v", err)
			}
		}),
	); err != nil {
		log.Fatal("Failed to schedule outbox relay: %v", err)
	}

	scheduler.Start()
	log.Info("Background jobs scheduled (sweep every %ds, outbox flush every %ds)",
		cfg.Club.SweepIntervalSeconds, cfg.Club.OutboxFlushSeconds)

	// Handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createHoldUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getCourtBookings := getCourtBookingsHandler.NewHandler(bookingSvc, log)
	paymentWebhooks := paymentWebhooksHandler.NewHandler(confirmPaymentUseCase, log)

	// Router
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes: the availability grid and the gateway webhooks.
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/webhooks/payments/cardpay", paymentWebhooks.HandleCardpay).Methods(http.MethodPost)
	api.HandleFunc("/webhooks/payments/walletpay", paymentWebhooks.HandleWalletpay).Methods(http.MethodPost)
	api.HandleFunc("/webhooks/payments/prefpay", paymentWebhooks.HandlePrefpay).Methods(http.MethodPost)

	// Protected routes require the X-User-ID header.
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/courts/{courtId}/bookings", getCourtBookings.Handle).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if err := scheduler.Shutdown(); err != nil {
		log.Error("Scheduler forced to shutdown: %v", err)
	}

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
