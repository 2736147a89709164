package main

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/config"
	appHTTP "github.com/cmlabs-hris/faceid-bridge-go/internal/handler/http"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/cron"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/database"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/isapi"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/telegram"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/repository/postgresql"
	accessSyncService "github.com/cmlabs-hris/faceid-bridge-go/internal/service/accesssync"
	autoCloseService "github.com/cmlabs-hris/faceid-bridge-go/internal/service/autoclose"
	deviceService "github.com/cmlabs-hris/faceid-bridge-go/internal/service/device"
	reconcileService "github.com/cmlabs-hris/faceid-bridge-go/internal/service/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	deviceRepo := postgresql.NewDeviceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	eventLogRepo := postgresql.NewEventLogRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	calendarRepo := postgresql.NewCalendarRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	bridgeLogRepo := postgresql.NewBridgeLogRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	transport := isapi.NewClient(cfg.Bridge.DeviceTimeout)
	telegramClient := telegram.NewClient(cfg.Telegram)
	loc := cfg.Location()

	reconcileSvc := reconcileService.NewService(
		txManager,
		deviceRepo,
		transport,
		eventLogRepo,
		attendanceRepo,
		employeeRepo,
		bridgeLogRepo,
		loc,
		cfg.Bridge.FetchPageSize,
		cfg.Bridge.FetchOverlap,
	)
	autoCloseSvc := autoCloseService.NewService(
		txManager,
		attendanceRepo,
		employeeRepo,
		calendarRepo,
		deviceRepo,
		eventLogRepo,
		bridgeLogRepo,
		loc,
		cfg.Bridge.DefaultWorkEnd,
	)
	accessSyncSvc := accessSyncService.NewService(
		employeeRepo,
		leaveRepo,
		holidayRepo,
		calendarRepo,
		deviceRepo,
		transport,
		bridgeLogRepo,
		loc,
	)
	deviceSvc := deviceService.NewDeviceService(deviceRepo, employeeRepo, transport, cfg.App.BaseURL)

	scheduler := cron.NewScheduler()
	bridgeJobs := cron.NewBridgeJobs(reconcileSvc, autoCloseSvc, accessSyncSvc, bridgeLogRepo, telegramClient)
	bridgeJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(JWTService, cfg.JWT.APIKey)
	deviceHandler := appHTTP.NewDeviceHandler(deviceSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceRepo, eventLogRepo, loc)
	webhookHandler := appHTTP.NewWebhookHandler(reconcileSvc, deviceRepo)
	jobHandler := appHTTP.NewJobHandler(scheduler)

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		deviceHandler,
		attendanceHandler,
		webhookHandler,
		jobHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
