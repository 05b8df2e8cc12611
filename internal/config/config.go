package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	SERVER_PORT       int
	DATABASE_URL      string
	PRODUCT_URL       string
	LOGISTIC_URL      string
	PAYMENT_URL       string
	WAREHOUSE_CITY_ID string
	WAREHOUSE_PICKUP  string
	KAFKA_ADDRESS     string
	ES_URL            string
	ES_USER           string
	ES_PASSWORD       string
	LOG_LEVEL         string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		SERVER_PORT:       envIntDefault("SERVER_PORT", 7003),
		DATABASE_URL:      envDefault("DATABASE_URL", "orders.db"),
		PRODUCT_URL:       envDefault("PRODUCT_SERVICE_URL", "http://product-service:7002"),
		LOGISTIC_URL:      envDefault("LOGISTIC_SERVICE_URL", "http://logistics-gateway:4000"),
		PAYMENT_URL:       envDefault("PAYMENT_SERVICE_URL", "http://payment-gateway:8000"),
		WAREHOUSE_CITY_ID: envDefault("WAREHOUSE_CITY_ID", "1"),
		WAREHOUSE_PICKUP:  envDefault("WAREHOUSE_PICKUP_ADDRESS", "Gudang Pusat Jakarta"),
		KAFKA_ADDRESS:     os.Getenv("KAFKA_ADDRESS"),
		ES_URL:            os.Getenv("ES_URL"),
		ES_USER:           os.Getenv("ES_USER"),
		ES_PASSWORD:       os.Getenv("ES_PASSWORD"),
		LOG_LEVEL:         envDefault("LOG_LEVEL", "info"),
	}

	return config, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
