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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	createBusinessHourHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_business_hour"
	deleteBusinessHourHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_business_hour"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAppointmentHistoryHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment_history"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBusinessHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_business_hours"
	listProfessionalAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_professional_appointments"
	transitionAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/transition_appointment"
	updateBusinessHourHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_business_hour"
	validateAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/validate_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	catalogCache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/catalog"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	blockedTimeRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/blocked_time"
	businessHoursRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business_hours"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	professionalRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/professional"
	stateHistoryRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/state_history"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	businessHoursService "github.com/m04kA/SMC-AppointmentService/internal/service/business_hours"
	"github.com/m04kA/SMC-AppointmentService/internal/timezone"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	transitionAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/transition_appointment"
	validateAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/validate_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const defaultConfigPath = "config.toml"

func main() {
	// .env необязателен, переменные окружения имеют приоритет
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (если включены); nil-коллектор везде допустим
	var metricsCollector *metrics.Metrics
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	timezones, err := timezone.NewResolver(cfg.Scheduling.DefaultTimezone)
	if err != nil {
		log.Fatal("Invalid default timezone %q: %v", cfg.Scheduling.DefaultTimezone, err)
	}

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	historyRepository := stateHistoryRepo.NewRepository(wrappedDB)
	rulesRepository := businessHoursRepo.NewRepository(wrappedDB)
	blockedRepository := blockedTimeRepo.NewRepository(wrappedDB)
	professionalRepository := professionalRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	// Каталог услуг: через Redis, если он включен
	var serviceCatalog createAppointmentUC.ServiceCatalog = catalogRepository

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancelPing()
		if err != nil {
			log.Warn("Redis unavailable at %s, catalog cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			serviceCatalog = catalogCache.NewCache(
				catalogRepository,
				redisClient,
				time.Duration(cfg.Redis.CatalogTTLSeconds)*time.Second,
				log,
			)
			log.Info("Catalog cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.CatalogTTLSeconds)
		}
	}

	// Use cases
	validateAppointmentUseCase := validateAppointmentUC.NewUseCase(
		rulesRepository,
		appointmentRepository,
		blockedRepository,
		professionalRepository,
		timezones,
		metricsCollector,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		rulesRepository,
		appointmentRepository,
		blockedRepository,
		professionalRepository,
		serviceCatalog,
		timezones,
		metricsCollector,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		historyRepository,
		professionalRepository,
		serviceCatalog,
		validateAppointmentUseCase,
		txMgr,
		metricsCollector,
		cfg.Scheduling.ConflictRetries,
		log,
	)

	transitionAppointmentUseCase := transitionAppointmentUC.NewUseCase(
		appointmentRepository,
		historyRepository,
		professionalRepository,
		validateAppointmentUseCase,
		txMgr,
		metricsCollector,
		cfg.Scheduling.ConflictRetries,
		log,
	)

	// Сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		historyRepository,
		professionalRepository,
		txMgr,
		log,
	)
	businessHoursSvc := businessHoursService.NewService(
		rulesRepository,
		professionalRepository,
		txMgr,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	validateAppointment := validateAppointmentHandler.NewHandler(validateAppointmentUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	transitionAppointment := transitionAppointmentHandler.NewHandler(transitionAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	getAppointmentHistory := getAppointmentHistoryHandler.NewHandler(appointmentsSvc, log)
	listProfessionalAppointments := listProfessionalAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getBusinessHours := getBusinessHoursHandler.NewHandler(businessHoursSvc, log)
	createBusinessHour := createBusinessHourHandler.NewHandler(businessHoursSvc, log)
	updateBusinessHour := updateBusinessHourHandler.NewHandler(businessHoursSvc, log)
	deleteBusinessHour := deleteBusinessHourHandler.NewHandler(businessHoursSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.Server.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
		api.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты специалиста под услугу
	api.HandleFunc("/professionals/{professionalId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Проверка времени без создания записи
	api.HandleFunc("/appointments/validate", validateAppointment.Handle).Methods(http.MethodPost)

	// Правила рабочего времени специалиста
	api.HandleFunc("/professionals/{professionalId}/business-hours",
		getBusinessHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/state", transitionAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/history", getAppointmentHistory.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{professionalId}/appointments",
		listProfessionalAppointments.Handle).Methods(http.MethodGet)

	// --- Рабочее время (для администраторов) ---
	protected.HandleFunc("/professionals/{professionalId}/business-hours",
		createBusinessHour.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/business-hours/{ruleId}", updateBusinessHour.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/business-hours/{ruleId}", deleteBusinessHour.Handle).Methods(http.MethodDelete)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

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
