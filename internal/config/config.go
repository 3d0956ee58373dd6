package config

import (
	"errors"  // Validation errors
	"fmt"     // Error wrapping
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"invest_platform/internal/pix" // BR Code limits

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBDriver   string // Database driver: mysql or sqlite
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	DBPath     string // SQLite database file
	JWTSecret  string // JWT secret key
	RedisAddr  string // Redis server address, empty disables caching
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment
	CorsOrigin string // Allowed CORS origin
	Pix        PixConfig
}

// PixConfig holds the simulated payee used for PIX deposits
type PixConfig struct {
	Key       string // PIX key of the payee
	PayeeName string // Legal name shown to the payer
	City      string // Merchant city embedded in the BR Code
	CNPJ      string // Company tax id
	Bank      string // Bank code and name
	Agency    string // Branch number
	Account   string // Account number
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:    getEnvString("APP_PORT", "5000"),
		DBDriver:   getEnvString("DB_DRIVER", "mysql"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     getEnvString("DB_HOST", "127.0.0.1"),
		DBPort:     getEnvString("DB_PORT", "3306"),
		DBName:     getEnvString("DB_NAME", "investments"),
		DBPath:     getEnvString("DB_PATH", "investments.db"),
		JWTSecret:  getEnvString("JWT_SECRET", "jwt-secret-string"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		RedisPass:  os.Getenv("REDIS_PASS"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		IsProd:     getEnvBool("IS_PROD", false),
		CorsOrigin: getEnvString("CORS_ORIGIN", "*"),
		Pix: PixConfig{
			Key:       getEnvString("PIX_KEY", "pix@peerbr.com.br"),
			PayeeName: getEnvString("PIX_PAYEE_NAME", "PeerBR Investimentos LTDA"),
			City:      getEnvString("PIX_PAYEE_CITY", "SAO PAULO"),
			CNPJ:      getEnvString("PIX_PAYEE_CNPJ", "12.345.678/0001-90"),
			Bank:      getEnvString("PIX_BANK", "341 - Itaú Unibanco S.A."),
			Agency:    getEnvString("PIX_AGENCY", "1234"),
			Account:   getEnvString("PIX_ACCOUNT", "12345-6"),
		},
	}
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	return c.Pix.Validate()
}

// Validate checks that the payee fits in a BR Code
func (p PixConfig) Validate() error {
	if err := pix.CheckKey(p.Key); err != nil {
		return fmt.Errorf("PIX_KEY: %w", err)
	}
	if p.PayeeName == "" || p.City == "" {
		return errors.New("PIX_PAYEE_NAME and PIX_PAYEE_CITY must not be empty")
	}
	return nil
}

// DSN builds the MySQL Data Source Name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
