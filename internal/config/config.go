package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type MinIO struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Kafka struct {
	Brokers []string
	Topic   string
}

type Config struct {
	ServerPort    int
	MySQLDSN      string
	Redis         Redis
	JWTSecret     string
	SMTP          SMTP
	MinIO         MinIO
	Kafka         Kafka
	AllowedOrigin string
	CookieSecure  bool
	GinMode       string
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment variables")
	}

	return &Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		MySQLDSN:   getEnv("MYSQL_DSN", "root:password@tcp(127.0.0.1:3306)/campfire?charset=utf8mb4&parseTime=True"),
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWTSecret: getEnv("JWT_SECRET", ""),
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "Campfire <no-reply@campfire.local>"),
		},
		MinIO: MinIO{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "campfire"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Kafka: Kafka{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "127.0.0.1:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "notifications"),
		},
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		CookieSecure:  getEnvBool("COOKIE_SECURE", true),
		GinMode:       getEnv("GIN_MODE", "debug"),
	}
}
