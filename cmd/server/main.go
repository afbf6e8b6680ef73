package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sebino/rowing-app/internal/api"
	"sebino/rowing-app/internal/config"
	"sebino/rowing-app/internal/repository/mongo"
	"sebino/rowing-app/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Rowing Club Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	clubTZ, err := time.LoadLocation(cfg.Club.Timezone)
	if err != nil {
		log.Fatalf("FATAL: Invalid club timezone %q: %v", cfg.Club.Timezone, err)
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureCategoryIndexes(ctx, appDB.Collection("categories"))
		mongo.EnsureTrainingIndexes(ctx, appDB.Collection("trainings"))
		mongo.EnsureAttendanceIndexes(ctx, appDB.Collection("attendances"))
		mongo.EnsureAttendanceChangeIndexes(ctx, appDB.Collection("attendance_changes"))
		mongo.EnsureActivityIndexes(ctx, appDB.Collection("activities"))
		mongo.EnsureRequirementIndexes(ctx, appDB.Collection("activity_requirements"))
		mongo.EnsureAssignmentIndexes(ctx, appDB.Collection("activity_assignments"))
		mongo.EnsureShiftIndexes(ctx, appDB.Collection("shifts"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	categoryRepo := mongo.NewMongoCategoryRepository(appDB)
	trainingRepo := mongo.NewMongoTrainingRepository(appDB)
	attendanceRepo := mongo.NewMongoAttendanceRepository(appDB)
	activityRepo := mongo.NewMongoActivityRepository(appDB)
	requirementRepo := mongo.NewMongoRequirementRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)
	activityTypeRepo := mongo.NewMongoActivityTypeRepository(appDB)
	qualTypeRepo := mongo.NewMongoQualificationTypeRepository(appDB)
	shiftRepo := mongo.NewMongoShiftRepository(appDB)
	boatRepo := mongo.NewMongoBoatRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	rosterService := service.NewRosterService(userRepo, categoryRepo, attendanceRepo)
	scheduleService := service.NewScheduleService(trainingRepo, attendanceRepo, shiftRepo, boatRepo)
	attendanceService := service.NewAttendanceService(trainingRepo, attendanceRepo, userRepo, categoryRepo, rosterService)
	availabilityService := service.NewAvailabilityService(userRepo, trainingRepo, shiftRepo, activityRepo, requirementRepo, assignmentRepo)
	activityService := service.NewActivityService(activityRepo, requirementRepo, assignmentRepo, activityTypeRepo, qualTypeRepo, userRepo, availabilityService)
	calendarService := service.NewCalendarService(userRepo, trainingRepo, shiftRepo, rosterService, clubTZ)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret,
		authService, rosterService, scheduleService,
		attendanceService, activityService, availabilityService, calendarService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
