package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/coachms/coaching-service/internal/config"
	"github.com/coachms/coaching-service/internal/handler"
	"github.com/coachms/coaching-service/internal/integrations/tally"
	"github.com/coachms/coaching-service/internal/middleware"
	"github.com/coachms/coaching-service/internal/models"
	"github.com/coachms/coaching-service/internal/repository"
	"github.com/coachms/coaching-service/internal/service"
	"github.com/coachms/coaching-service/internal/utils/email"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load .env if present, then configuration
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, relying on environment")
	}
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	mailer := email.NewSender(cfg, logger)
	svc := service.NewService(repo, logger, cfg, mailer)
	tallyExporter := tally.NewExporter(cfg.TallyCompany, logger)
	h := handler.NewHandler(svc, tallyExporter)

	// Background jobs: recurring fee instantiation and due-date reminders
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RecurringFeeSpec, svc.GenerateRecurringFees); err != nil {
		logger.Fatalf("Failed to schedule recurring fee job: %v", err)
	}
	if _, err := scheduler.AddFunc(cfg.ReminderSpec, svc.SendFeeReminders); err != nil {
		logger.Fatalf("Failed to schedule reminder job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/me", h.Me).Methods("GET")
	authRouter.HandleFunc("/branches", h.ListBranches).Methods("GET")
	authRouter.HandleFunc("/students", h.CreateStudent).Methods("POST")
	authRouter.HandleFunc("/students", h.ListStudents).Methods("GET")
	authRouter.HandleFunc("/students/{id}", h.GetStudent).Methods("GET")
	authRouter.HandleFunc("/students/{id}", h.DeleteStudent).Methods("DELETE")
	authRouter.HandleFunc("/classes", h.CreateClass).Methods("POST")
	authRouter.HandleFunc("/classes", h.ListClasses).Methods("GET")

	authRouter.HandleFunc("/attendance", h.MarkAttendance).Methods("POST")
	authRouter.HandleFunc("/classes/{id}/attendance", h.ClassAttendance).Methods("GET")
	authRouter.HandleFunc("/students/{id}/attendance", h.StudentAttendance).Methods("GET")

	authRouter.HandleFunc("/leads", h.CreateLead).Methods("POST")
	authRouter.HandleFunc("/leads", h.ListLeads).Methods("GET")
	authRouter.HandleFunc("/leads/follow-ups", h.DueFollowUps).Methods("GET")
	authRouter.HandleFunc("/leads/{id}/status", h.UpdateLeadStatus).Methods("PUT")
	authRouter.HandleFunc("/leads/{id}/convert", h.ConvertLead).Methods("POST")

	authRouter.HandleFunc("/fee-structures", h.ListFeeStructures).Methods("GET")
	authRouter.HandleFunc("/students/{id}/fees", h.AssignFee).Methods("POST")
	authRouter.HandleFunc("/students/{id}/fees", h.ListStudentFees).Methods("GET")
	authRouter.HandleFunc("/students/{id}/schedules", h.GenerateSchedule).Methods("POST")
	authRouter.HandleFunc("/schedules/{id}", h.GetSchedule).Methods("GET")
	authRouter.HandleFunc("/fees/{id}/overdue", h.FeeOverdueState).Methods("GET")
	authRouter.HandleFunc("/fees/{id}/payments", h.CollectPayment).Methods("POST")
	authRouter.HandleFunc("/fees/{id}/payments", h.ListFeePayments).Methods("GET")
	authRouter.HandleFunc("/receipts/{id}", h.GetReceipt).Methods("GET")
	authRouter.HandleFunc("/receipts/{id}/tally", h.ExportReceiptTally).Methods("GET")

	authRouter.HandleFunc("/analytics/collections", h.MonthlyCollections).Methods("GET")
	authRouter.HandleFunc("/analytics/outstanding", h.OutstandingSummary).Methods("GET")

	// Admin-only routes
	adminRouter := authRouter.PathPrefix("/").Subrouter()
	adminRouter.Use(middleware.RequireRole(models.RoleAdmin))
	adminRouter.HandleFunc("/branches", h.CreateBranch).Methods("POST")
	adminRouter.HandleFunc("/fee-structures", h.CreateFeeStructure).Methods("POST")
	adminRouter.HandleFunc("/fee-structures/{id}", h.DeleteFeeStructure).Methods("DELETE")
	adminRouter.HandleFunc("/fees/{id}/waive", h.WaiveFee).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
