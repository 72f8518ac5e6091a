package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    string `mapstructure:"ALLOWED_ORIGINS"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`

	// Storage. "mongo" or "memory".
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Per-resource locking. "memory" or "redis".
	LockDriver string        `mapstructure:"LOCK_DRIVER"`
	LockTTL    time.Duration `mapstructure:"LOCK_TTL"`
	LockWait   time.Duration `mapstructure:"LOCK_WAIT"`

	// Payments.
	PaymentSigningSecret string        `mapstructure:"PAYMENT_SIGNING_SECRET"`
	StripeKey            string        `mapstructure:"STRIPE_KEY"`
	PaymentVerifyTimeout time.Duration `mapstructure:"PAYMENT_VERIFY_TIMEOUT"`
	OrderTTL             time.Duration `mapstructure:"ORDER_TTL"`

	// Notifications. "queue" or "log".
	NotifyDriver            string `mapstructure:"NOTIFY_DRIVER"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Minimum notice a host must give to cancel with a full refund.
	HostNoticeRanged  time.Duration `mapstructure:"HOST_NOTICE_RANGED"`
	HostNoticeSlotted time.Duration `mapstructure:"HOST_NOTICE_SLOTTED"`
}

var AppConfig Config

func LoadConfig() {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig.StorageDriver = strings.ToLower(AppConfig.StorageDriver)
	AppConfig.LockDriver = strings.ToLower(AppConfig.LockDriver)
	AppConfig.NotifyDriver = strings.ToLower(AppConfig.NotifyDriver)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("STORAGE_DRIVER", "mongo")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "reservo")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_LOCK_DB", 1)
	v.SetDefault("REDIS_QUEUE_DB", 2)

	v.SetDefault("LOCK_DRIVER", "memory")
	v.SetDefault("LOCK_TTL", "10s")
	v.SetDefault("LOCK_WAIT", "5s")

	v.SetDefault("PAYMENT_SIGNING_SECRET", "")
	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("PAYMENT_VERIFY_TIMEOUT", "5s")
	v.SetDefault("ORDER_TTL", "30m")

	v.SetDefault("NOTIFY_DRIVER", "log")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")

	v.SetDefault("HOST_NOTICE_RANGED", "24h")
	v.SetDefault("HOST_NOTICE_SLOTTED", "24h")
}

// AllowedOriginList splits ALLOWED_ORIGINS on commas.
func (c Config) AllowedOriginList() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
