package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

// RazorpayConfig holds the payment gateway credentials. Both values must be
// present for the payment endpoints to work; everything else degrades gracefully.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// IsConfigured reports whether the gateway can be used at all.
func (r RazorpayConfig) IsConfigured() bool {
	return r.KeyID != "" && r.KeySecret != ""
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// Identity provider (Clerk) configuration
	CLERK_SECRET_KEY     string
	CLERK_WEBHOOK_SECRET string
	// Internal ingestion API key
	INTERNAL_API_KEY string
	// Payment gateway
	Razorpay RazorpayConfig
	// Redis Configuration
	REDIS_URL string
	// CORS
	ALLOWED_ORIGINS string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 4000
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,
		// Clerk
		CLERK_SECRET_KEY:     os.Getenv("CLERK_SECRET_KEY"),
		CLERK_WEBHOOK_SECRET: os.Getenv("CLERK_WEBHOOK_SECRET"),
		// Internal API key for bulk ingestion routes
		INTERNAL_API_KEY: os.Getenv("INTERNAL_API_KEY"),
		// Razorpay
		Razorpay: RazorpayConfig{
			KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		},
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// CORS
		ALLOWED_ORIGINS: os.Getenv("ALLOWED_ORIGINS"),
	}

	return envVariables, nil
}
