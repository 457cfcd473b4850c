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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/bookwell/appointment-service/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/bookwell/appointment-service/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/bookwell/appointment-service/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/bookwell/appointment-service/internal/api/handlers/get_available_slots"
	getBusinessAppointmentsHandler "github.com/bookwell/appointment-service/internal/api/handlers/get_business_appointments"
	getBusinessSettingsHandler "github.com/bookwell/appointment-service/internal/api/handlers/get_business_settings"
	updateAppointmentStatusHandler "github.com/bookwell/appointment-service/internal/api/handlers/update_appointment_status"
	updateBusinessSettingsHandler "github.com/bookwell/appointment-service/internal/api/handlers/update_business_settings"
	"github.com/bookwell/appointment-service/internal/api/middleware"
	"github.com/bookwell/appointment-service/internal/config"
	appointmentRepo "github.com/bookwell/appointment-service/internal/infra/storage/appointment"
	businessRepo "github.com/bookwell/appointment-service/internal/infra/storage/business"
	catalogRepo "github.com/bookwell/appointment-service/internal/infra/storage/catalog"
	reviewInviteRepo "github.com/bookwell/appointment-service/internal/infra/storage/reviewinvite"
	staffLeaveRepo "github.com/bookwell/appointment-service/internal/infra/storage/staffleave"
	"github.com/bookwell/appointment-service/internal/integrations/notifyservice"
	appointmentsService "github.com/bookwell/appointment-service/internal/service/appointments"
	"github.com/bookwell/appointment-service/internal/service/conflictcheck"
	"github.com/bookwell/appointment-service/internal/service/leaves"
	settingsService "github.com/bookwell/appointment-service/internal/service/settings"
	createAppointmentUC "github.com/bookwell/appointment-service/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/bookwell/appointment-service/internal/usecase/get_available_slots"
	"github.com/bookwell/appointment-service/pkg/dbmetrics"
	"github.com/bookwell/appointment-service/pkg/logger"
	"github.com/bookwell/appointment-service/pkg/metrics"
	"github.com/bookwell/appointment-service/pkg/simpletxmanager"
	"github.com/bookwell/appointment-service/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting appointment-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент сервиса уведомлений
	notifyClient := notifyservice.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		cfg.NotifyService.Enabled,
		log,
	)
	log.Info("Notify service client initialized (URL=%s timeout=%ds enabled=%v)",
		cfg.NotifyService.URL, cfg.NotifyService.Timeout, cfg.NotifyService.Enabled)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository  *appointmentRepo.Repository
		businessRepository     *businessRepo.Repository
		catalogRepository      *catalogRepo.Repository
		staffLeaveRepository   *staffLeaveRepo.Repository
		reviewInviteRepository *reviewInviteRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		businessRepository = businessRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		staffLeaveRepository = staffLeaveRepo.NewRepository(wrappedDB)
		reviewInviteRepository = reviewInviteRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		appointmentRepository = appointmentRepo.NewRepository(db)
		businessRepository = businessRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		staffLeaveRepository = staffLeaveRepo.NewRepository(db)
		reviewInviteRepository = reviewInviteRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	leaveRegistry := leaves.NewRegistry(staffLeaveRepository, log)
	conflictDetector := conflictcheck.NewDetector(appointmentRepository, log)
	settingsSvc := settingsService.NewService(businessRepository, log)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		businessRepository,
		reviewInviteRepository,
		notifyClient,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		businessRepository,
		catalogRepository,
		settingsSvc,
		conflictDetector,
		leaveRegistry,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		businessRepository,
		catalogRepository,
		settingsSvc,
		conflictDetector,
		leaveRegistry,
		notifyClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getBusinessAppointments := getBusinessAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getBusinessSettings := getBusinessSettingsHandler.NewHandler(settingsSvc, log)
	updateBusinessSettings := updateBusinessSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов для записи
	api.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание записи (доступно гостям без аккаунта)
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Смена статуса записи
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Управление бизнесом (для владельцев и администраторов) ---
	// Список записей бизнеса
	protected.HandleFunc("/businesses/{businessId}/appointments", getBusinessAppointments.Handle).Methods(http.MethodGet)

	// Настройки записи бизнеса
	protected.HandleFunc("/businesses/{businessId}/settings", getBusinessSettings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/settings", updateBusinessSettings.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
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
