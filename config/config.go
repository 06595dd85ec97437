package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	AppBaseURL        string `mapstructure:"APP_BASE_URL"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Notification engine.
	NotificationWindow time.Duration `mapstructure:"NOTIFICATION_WINDOW"`
	ScanInterval       time.Duration `mapstructure:"SCAN_INTERVAL"`
	BudgetThresholds   []int         `mapstructure:"BUDGET_THRESHOLDS"`

	// Outbound transports.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	SendGridAPIKey          string `mapstructure:"SENDGRID_API_KEY"`
	EmailFrom               string `mapstructure:"EMAIL_FROM"`
	EmailFromName           string `mapstructure:"EMAIL_FROM_NAME"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_BASE_URL", "http://localhost:3000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("NOTIFICATION_WINDOW", "24h")
	viper.SetDefault("SCAN_INTERVAL", "1h")
	viper.SetDefault("BUDGET_THRESHOLDS", []int{80, 100})
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")
	viper.SetDefault("SENDGRID_API_KEY", "")
	viper.SetDefault("EMAIL_FROM", "noreply@finbook.app")
	viper.SetDefault("EMAIL_FROM_NAME", "Finbook")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// A dedup window shorter than the scan interval would renotify overdue
	// cards on every scan. Refuse to start in that state.
	if AppConfig.NotificationWindow < AppConfig.ScanInterval {
		log.Fatalf("NOTIFICATION_WINDOW (%s) must be at least SCAN_INTERVAL (%s)",
			AppConfig.NotificationWindow, AppConfig.ScanInterval)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
