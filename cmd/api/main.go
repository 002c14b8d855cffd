package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/compositor"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/storage"
	"backend/internal/websocket"
	"backend/pkg/mailer"
	"context"
	"log"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           Donation Receipt API
// @version         1.0
// @description     Records donations, issues sequential receipt numbers and generates receipt documents.
// @host            localhost:8080
// @BasePath        /
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := getenv("DB_HOST", "localhost")
	dbPort := getenv("DB_PORT", "5432")
	dbUser := getenv("DB_USER", "postgres")
	dbPassword := getenv("DB_PASSWORD", "postgres")
	dbName := getenv("DB_NAME", "postgres")
	dbSslMode := getenv("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	uploadDir := getenv("UPLOAD_DIR", "uploads")
	templatePath := getenv("TEMPLATE_PATH", "uploads/template.jpg")

	store, err := storage.NewLocalStorage(uploadDir)
	if err != nil {
		log.Fatalf("Storage setup failed: %v", err)
	}

	renderer, err := compositor.New(templatePath)
	if err != nil {
		log.Fatalf("Receipt template unavailable: %v", err)
	}

	smtpPort, err := strconv.Atoi(getenv("SMTP_PORT", "465"))
	if err != nil {
		log.Fatalf("Invalid SMTP_PORT: %v", err)
	}
	adminMailer := mailer.New(mailer.Config{
		SMTPHost:     getenv("SMTP_HOST", "localhost"),
		SMTPPort:     smtpPort,
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromName:     getenv("MAIL_FROM_NAME", "Donation Receipts"),
		FromEmail:    getenv("MAIL_FROM_EMAIL", "noreply@localhost"),
	})
	adminEmail := getenv("ADMIN_EMAIL", "admin@localhost")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	receiptRepo := repository.NewReceiptRepository(db)
	seqRepo := repository.NewSequenceRepository(db)
	txManager := repository.NewTransactionManager(db)

	if err := seqRepo.Seed(context.Background()); err != nil {
		log.Fatalf("Receipt sequence seeding failed: %v", err)
	}

	receiptService := service.NewReceiptService(
		receiptRepo, seqRepo, txManager,
		renderer, store, adminMailer, wsHub, adminEmail,
	)

	// Initialize Handlers
	receiptHandler := handler.NewReceiptHandler(receiptService, store)

	// Set up Gin Router
	router := gin.Default()
	router.Use(middleware.RequestID())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for live receipt table updates
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c)
	})

	// Generated documents and uploaded proofs
	router.Static("/uploads", uploadDir)

	// Register API Routes
	receiptHandler.RegisterRoutes(router.Group(""))

	port := getenv("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
