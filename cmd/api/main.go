package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nomitake/timeclock-backend-go/internal/config"
	appHTTP "github.com/nomitake/timeclock-backend-go/internal/handler/http"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/businessday"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/cron"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/database"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/jwt"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/storage"
	"github.com/nomitake/timeclock-backend-go/internal/repository/postgresql"
	approvalService "github.com/nomitake/timeclock-backend-go/internal/service/approval"
	authService "github.com/nomitake/timeclock-backend-go/internal/service/auth"
	"github.com/nomitake/timeclock-backend-go/internal/service/file"
	punchService "github.com/nomitake/timeclock-backend-go/internal/service/punch"
	timesheetService "github.com/nomitake/timeclock-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	days := businessday.Config{
		StartHour:    cfg.BusinessDay.StartHour,
		EndHour:      cfg.BusinessDay.EndHour,
		GraceMinutes: cfg.BusinessDay.GraceMinutes,
	}

	punchRepo := postgresql.NewPunchRepository(db)
	dayApprovalRepo := postgresql.NewDayApprovalRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)
	punchSvc := punchService.NewPunchService(db, punchRepo, dayApprovalRepo, fileService, days)
	timesheetSvc := timesheetService.NewTimesheetService(punchRepo, days)
	approvalSvc := approvalService.NewApprovalService(db, punchRepo, dayApprovalRepo, days)
	authSvc := authService.NewAuthService(jwtService)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc)
	punchHandler := appHTTP.NewPunchHandler(punchSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	approvalHandler := appHTTP.NewApprovalHandler(approvalSvc)
	businessDayHandler := appHTTP.NewBusinessDayHandler(days)
	filesHandler := appHTTP.NewFilesHandler(fileStorage)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		punchHandler,
		timesheetHandler,
		approvalHandler,
		businessDayHandler,
		filesHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewPunchJobs(db, punchRepo, dayApprovalRepo, days).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)

	server := &http.Server{Addr: port, Handler: router}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	_ = server.Close()
}
