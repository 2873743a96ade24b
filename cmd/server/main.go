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

	"github.com/gin-gonic/gin"

	"madrasti/elearning-app/internal/api"
	"madrasti/elearning-app/internal/config"
	"madrasti/elearning-app/internal/payment"
	"madrasti/elearning-app/internal/repository/mongo"
	"madrasti/elearning-app/internal/service"
	"madrasti/elearning-app/internal/storage"
)

// @title Madrasti E-Learning API
// @version 1.0
// @description API for the course marketplace: catalog, gated séance and support access, subscriptions and professor formations.
// @host localhost:8090
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Madrasti E-Learning Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

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
		mongo.EnsureCourseIndexes(ctx, appDB.Collection("courses"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("sessions"))
		mongo.EnsureDocumentIndexes(ctx, appDB.Collection("documents"))
		mongo.EnsureSubscriptionIndexes(ctx, appDB.Collection("subscriptions"))
		mongo.EnsureUploadIndexes(ctx, appDB.Collection("uploads"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Payment Provider ---
	paymentProvider, err := payment.NewStripeProvider(cfg.Stripe)
	if err != nil {
		log.Printf("WARN: Stripe unavailable (%v), running checkout in offline mode", err)
		paymentProvider = payment.NewOfflineProvider()
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	courseRepo := mongo.NewMongoCourseRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	documentRepo := mongo.NewMongoDocumentRepository(appDB)
	subscriptionRepo := mongo.NewMongoSubscriptionRepository(appDB)
	uploadRepo := mongo.NewMongoUploadRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	catalogService := service.NewCatalogService(courseRepo, fileStorage)
	studentService := service.NewStudentService(courseRepo, sessionRepo, documentRepo, subscriptionRepo, fileStorage)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, courseRepo, userRepo, paymentProvider)
	professorService := service.NewProfessorService(userRepo, courseRepo, sessionRepo, documentRepo, subscriptionRepo, uploadRepo, fileStorage)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, catalogService, studentService, subscriptionService, professorService)

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
