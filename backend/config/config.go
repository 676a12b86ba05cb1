package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// AuthProvider selects the token verifier: "jwt" (self-issued HS256
	// tokens) or "firebase" (ID tokens verified against Firebase Auth).
	AuthProvider string
	JWTSecret    string

	// Firestore backend. When FirebaseCredentials is empty the server falls
	// back to the in-memory store, which only makes sense for local runs.
	FirebaseCredentials string
	FirestoreProject    string
	FirestoreDatabase   string

	// Outbound invitation mail. EmailPassword is an app password; when it is
	// empty, delivery is skipped rather than failing requests.
	SMTPHost      string
	SMTPPort      int
	SenderEmail   string
	EmailPassword string

	// FrontendOrigin is used to build invitation accept links.
	FrontendOrigin string
	StaticPath     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		AuthProvider:        getEnv("AUTH_PROVIDER", "jwt"),
		JWTSecret:           getEnv("JWT_SECRET", "ai_academy_dev_secret_key"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		FirestoreProject:    getEnv("FIRESTORE_PROJECT", "aiacademyhub"),
		FirestoreDatabase:   getEnv("FIRESTORE_DATABASE", "ai-academy"),
		SMTPHost:            getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:            smtpPort,
		SenderEmail:         getEnv("EMAIL_SENDER", "aiacademyhub@gmail.com"),
		EmailPassword:       getEnv("EMAIL_PASSWORD", ""),
		FrontendOrigin:      getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		StaticPath:          getEnv("STATIC_PATH", "./static"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
