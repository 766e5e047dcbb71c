package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DbURL    string
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads the configuration from a .env file or environment variables and returns a Config struct.
// It returns an error if any required variable is missing.
func Load() (*Config, error) {
	// Try to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	dbURL := os.Getenv("DATABASE_URL")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpFrom := os.Getenv("SMTP_FROM")

	if port == "" || dbURL == "" || smtpHost == "" || smtpFrom == "" {
		return nil, fmt.Errorf("missing required environment variables: PORT=%q, DATABASE_URL=%q, SMTP_HOST=%q, SMTP_FROM=%q",
			port, dbURL, smtpHost, smtpFrom)
	}

	// SMTP_PORT defaults to the standard submission port
	smtpPort := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %v", v, err)
		}
		smtpPort = p
	}

	cfg := &Config{
		Port:     port,
		DbURL:    dbURL,
		SMTPHost: smtpHost,
		SMTPPort: smtpPort,
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: smtpFrom,
	}
	return cfg, nil
}
