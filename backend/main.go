package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"aiacademy/backend/auth"
	"aiacademy/backend/config"
	"aiacademy/backend/mail"
	"aiacademy/backend/middleware"
	"aiacademy/backend/routes"
	"aiacademy/backend/store"
	"aiacademy/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx := context.Background()

	// Initialize document store
	var st store.Store
	if cfg.FirebaseCredentials != "" {
		st, err = store.NewFirestoreStore(ctx, cfg.FirestoreProject, cfg.FirestoreDatabase, cfg.FirebaseCredentials)
		if err != nil {
			log.Fatalf("Error initializing Firestore: %v", err)
		}
	} else {
		log.Println("FIREBASE_CREDENTIALS not set, using in-memory store")
		st = store.NewMemoryStore()
	}
	defer st.Close()

	// Initialize token verifier
	var verifier auth.Verifier
	if cfg.AuthProvider == "firebase" {
		verifier, err = auth.NewFirebaseVerifier(ctx, cfg.FirestoreProject, cfg.FirebaseCredentials)
		if err != nil {
			log.Fatalf("Error initializing Firebase Auth: %v", err)
		}
	} else {
		verifier = auth.NewJWTVerifier(cfg.JWTSecret)
	}

	// Invitation mail
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.EmailPassword)

	// Initialize logger
	logger := utils.InitLogger()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, st, verifier, mailer, cfg, logger)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
