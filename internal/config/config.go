package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DB_PATH     string
	HTTP_PORT   string
	LOG_LEVEL   string
	CATALOG_URL string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_PATH:     getenv("DB_PATH", "AfricaMarket.db"),
		HTTP_PORT:   getenv("HTTP_PORT", "8080"),
		LOG_LEVEL:   getenv("LOG_LEVEL", "info"),
		CATALOG_URL: os.Getenv("CATALOG_URL"),
	}

	return config, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
