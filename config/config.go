package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	HTTP     HTTPConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Engine   EngineConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type HTTPConfig struct {
	Addr string
}

type RedisConfig struct {
	Addr string
}

type TelegramConfig struct {
	Token       string // staff notifier bot; empty disables Telegram delivery
	StaffChatID int64  // chat the order cards are pushed to
}

type EngineConfig struct {
	ReminderIntervalSeconds int // how often an unacknowledged order is re-signalled
	SweepIntervalSeconds    int // flash-sale expiry sweep period
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	staffChat, _ := strconv.ParseInt(getEnv("TELEGRAM_STAFF_CHAT_ID", "0"), 10, 64)
	reminder, _ := strconv.Atoi(getEnv("REMINDER_INTERVAL_SECONDS", "30"))
	sweep, _ := strconv.Atoi(getEnv("SWEEP_INTERVAL_SECONDS", "60"))

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "grocery"),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TELEGRAM_TOKEN", ""),
			StaffChatID: staffChat,
		},
		Engine: EngineConfig{
			ReminderIntervalSeconds: reminder,
			SweepIntervalSeconds:    sweep,
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
