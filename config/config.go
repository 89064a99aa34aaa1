package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env if present; a missing file is fine in production
// where everything comes from the environment.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
}

type Config struct {
	Port      string
	WebOrigin string

	RedisAddr string
	RedisPwd  string

	SessionTTL time.Duration
	CartTTL    time.Duration

	UploadDir     string
	MaxUploadSize int64

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	BootstrapEmail    string
	BootstrapPassword string

	LogFile string
}

func Load() Config {
	return Config{
		Port:      get("PORT", "3001"),
		WebOrigin: get("WEB_ORIGIN", "http://localhost:5173"),

		RedisAddr: get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),

		SessionTTL: getDuration("SESSION_TTL_SECONDS", 24*time.Hour),
		CartTTL:    getDuration("CART_TTL_SECONDS", 72*time.Hour),

		UploadDir:     get("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: getInt64("MAX_UPLOAD_BYTES", 10<<20),

		SMTPHost: get("MAIL_SERVER", "smtp.mailtrap.io"),
		SMTPPort: int(getInt64("MAIL_PORT", 2525)),
		SMTPUser: os.Getenv("MAIL_USERNAME"),
		SMTPPass: os.Getenv("MAIL_PASSWORD"),
		MailFrom: get("MAIL_FROM", "Rent-a-Camera <no-reply@rentacamera.local>"),

		BootstrapEmail:    os.Getenv("BOOTSTRAP_EMAIL"),
		BootstrapPassword: os.Getenv("BOOTSTRAP_PASSWORD"),

		LogFile: get("LOG_FILE", "./logs/app.log"),
	}
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt64(k string, def int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			return time.Duration(sec) * time.Second
		}
	}
	return def
}
