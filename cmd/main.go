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

	cancelBookingHandler "github.com/tunewave/scheduling-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/tunewave/scheduling-service/internal/api/handlers/create_booking"
	createScheduleWindowHandler "github.com/tunewave/scheduling-service/internal/api/handlers/create_schedule_window"
	deleteScheduleWindowHandler "github.com/tunewave/scheduling-service/internal/api/handlers/delete_schedule_window"
	getAvailableSlotsHandler "github.com/tunewave/scheduling-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/tunewave/scheduling-service/internal/api/handlers/get_booking"
	getProviderBookingsHandler "github.com/tunewave/scheduling-service/internal/api/handlers/get_provider_bookings"
	getProviderScheduleHandler "github.com/tunewave/scheduling-service/internal/api/handlers/get_provider_schedule"
	getScheduleSettingsHandler "github.com/tunewave/scheduling-service/internal/api/handlers/get_schedule_settings"
	getUserBookingsHandler "github.com/tunewave/scheduling-service/internal/api/handlers/get_user_bookings"
	rescheduleBookingHandler "github.com/tunewave/scheduling-service/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/tunewave/scheduling-service/internal/api/handlers/update_booking_status"
	updateScheduleSettingsHandler "github.com/tunewave/scheduling-service/internal/api/handlers/update_schedule_settings"
	"github.com/tunewave/scheduling-service/internal/api/middleware"
	"github.com/tunewave/scheduling-service/internal/config"
	cronJobs "github.com/tunewave/scheduling-service/internal/cron"
	availabilityRepo "github.com/tunewave/scheduling-service/internal/infra/storage/availability"
	bookingRepo "github.com/tunewave/scheduling-service/internal/infra/storage/booking"
	notificationRepo "github.com/tunewave/scheduling-service/internal/infra/storage/notification"
	settingsRepo "github.com/tunewave/scheduling-service/internal/infra/storage/settings"
	notifyGatewayClient "github.com/tunewave/scheduling-service/internal/integrations/notifygateway"
	providerServiceClient "github.com/tunewave/scheduling-service/internal/integrations/providerservice"
	bookingsService "github.com/tunewave/scheduling-service/internal/service/bookings"
	notificationsService "github.com/tunewave/scheduling-service/internal/service/notifications"
	scheduleService "github.com/tunewave/scheduling-service/internal/service/schedule"
	createBookingUC "github.com/tunewave/scheduling-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/tunewave/scheduling-service/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/tunewave/scheduling-service/internal/usecase/reschedule_booking"
	"github.com/tunewave/scheduling-service/pkg/dbmetrics"
	"github.com/tunewave/scheduling-service/pkg/logger"
	"github.com/tunewave/scheduling-service/pkg/metrics"
	"github.com/tunewave/scheduling-service/pkg/simpletxmanager"
	"github.com/tunewave/scheduling-service/pkg/txmanager"
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

	log.Info("Starting scheduling-service...")
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

	// Инициализируем интеграционных клиентов
	providerClient := providerServiceClient.NewClient(
		cfg.ProviderService.URL,
		time.Duration(cfg.ProviderService.Timeout)*time.Second,
		log,
	)
	gatewayClient := notifyGatewayClient.NewClient(
		cfg.NotifyGateway.URL,
		time.Duration(cfg.NotifyGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProviderService=%s timeout=%ds, NotifyGateway=%s timeout=%ds)",
		cfg.ProviderService.URL, cfg.ProviderService.Timeout, cfg.NotifyGateway.URL, cfg.NotifyGateway.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		settingsRepository     *settingsRepo.Repository
		notificationRepository *notificationRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		notificationRepository = notificationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		notificationRepository = notificationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем диспетчер уведомлений
	dispatcher := notificationsService.NewDispatcher(
		notificationRepository,
		gatewayClient,
		&notificationsService.RealTimeProvider{},
		log,
		metricsCollector,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		settingsRepository,
		providerClient,
		dispatcher,
		&bookingsService.RealTimeProvider{},
		log,
	)
	scheduleSvc := scheduleService.NewService(
		availabilityRepository,
		settingsRepository,
		providerClient,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		settingsRepository,
		providerClient,
		dispatcher,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		settingsRepository,
		providerClient,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		settingsRepository,
		providerClient,
		dispatcher,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	getProviderSchedule := getProviderScheduleHandler.NewHandler(scheduleSvc, log)
	createScheduleWindow := createScheduleWindowHandler.NewHandler(scheduleSvc, log)
	deleteScheduleWindow := deleteScheduleWindowHandler.NewHandler(scheduleSvc, log)
	getScheduleSettings := getScheduleSettingsHandler.NewHandler(scheduleSvc, log)
	updateScheduleSettings := updateScheduleSettingsHandler.NewHandler(scheduleSvc, log)

	// Запускаем планировщик напоминаний (если включен)
	var scheduler *cronJobs.Scheduler
	if cfg.Reminders.Enabled {
		reminderJob := cronJobs.NewReminderJob(
			bookingRepository,
			settingsRepository,
			providerClient,
			dispatcher,
			&cronJobs.RealTimeProvider{},
			log,
			cfg.Reminders.LeadHours,
		)
		scheduler = cronJobs.NewScheduler(log)
		if err := scheduler.AddJob(cfg.Reminders.CronSpec, "booking-reminders", reminderJob.Run); err != nil {
			log.Fatal("Failed to schedule reminder job: %v", err)
		}
		scheduler.Start()
		log.Info("Reminder scheduler started (spec=%q, lead=%dh)", cfg.Reminders.CronSpec, cfg.Reminders.LeadHours)
	}

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

	// Получение доступных слотов для бронирования
	api.HandleFunc("/providers/{providerId}/services/{serviceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расписание работы провайдера
	api.HandleFunc("/providers/{providerId}/schedule",
		getProviderSchedule.Handle).Methods(http.MethodGet)

	// Настройки расписания провайдера
	api.HandleFunc("/providers/{providerId}/settings",
		getScheduleSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перенос бронирования
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// Смена статуса бронирования (для менеджеров)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление провайдером (для менеджеров) ---
	// Список бронирований провайдера
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

	// Создание окна расписания
	protected.HandleFunc("/providers/{providerId}/schedule/windows",
		createScheduleWindow.Handle).Methods(http.MethodPost)

	// Удаление окна расписания
	protected.HandleFunc("/providers/{providerId}/schedule/windows/{windowId}",
		deleteScheduleWindow.Handle).Methods(http.MethodDelete)

	// Обновление настроек расписания
	protected.HandleFunc("/providers/{providerId}/settings",
		updateScheduleSettings.Handle).Methods(http.MethodPut)

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

	// Останавливаем планировщик напоминаний
	if scheduler != nil {
		scheduler.Stop()
		log.Info("Reminder scheduler stopped")
	}

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
