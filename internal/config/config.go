package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// WebSocketPort is the fixed port of the persistent-connection server.
// Intentionally a constant, not configurable.
const WebSocketPort = 6000

// Config holds the application configuration
type Config struct {
	HTTPPort      string // HTTP listen port
	EmailUser     string // Sender-account address for notification emails
	EmailPassword string // Sender-account password
	SMTPHost      string // SMTP server host
	SMTPPort      int    // SMTP server port
	IsProd        bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "3000" // Default HTTP port
	}
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com" // Default SMTP host
	}
	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || smtpPort <= 0 {
		smtpPort = 587 // Default SMTP port
	}
	return &Config{
		HTTPPort:      httpPort,                       // HTTP listen port
		EmailUser:     os.Getenv("EMAIL_USER"),        // Notification sender address
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),    // Notification sender password
		SMTPHost:      smtpHost,                       // SMTP server host
		SMTPPort:      smtpPort,                       // SMTP server port
		IsProd:        os.Getenv("IS_PROD") == "true", // Is production environment
	}
}
