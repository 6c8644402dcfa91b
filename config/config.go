package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	TimeZone          string `mapstructure:"TIMEZONE"`

	// Source and target.
	ServiceAccountPath  string `mapstructure:"SERVICE_ACCOUNT_PATH"`
	TimetablePath       string `mapstructure:"TIMETABLE_PATH"`
	TimetableCollection string `mapstructure:"TIMETABLE_COLLECTION"`

	// Document store backend: "firestore" or "mongo".
	StoreBackend string `mapstructure:"STORE_BACKEND"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Upload tuning.
	UploadMode            string        `mapstructure:"UPLOAD_MODE"`
	UploadConcurrency     int           `mapstructure:"UPLOAD_CONCURRENCY"`
	UploadWritesPerSecond float64       `mapstructure:"UPLOAD_WRITES_PER_SECOND"`
	UploadWriteTimeout    time.Duration `mapstructure:"UPLOAD_WRITE_TIMEOUT"`

	// Redis configuration.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int           `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int           `mapstructure:"REDIS_QUEUE_DB"`
	CacheEnabled  bool          `mapstructure:"CACHE_ENABLED"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	NotifyTopic string `mapstructure:"NOTIFY_TOPIC"`
	SentryDSN   string `mapstructure:"SENTRY_DSN"`
}

const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"

	ModeDirect = "direct"
	ModeQueue  = "queue"
)

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("SERVICE_ACCOUNT_PATH", "serviceAccount.json")
	v.SetDefault("TIMETABLE_PATH", "timetable.json")
	v.SetDefault("TIMETABLE_COLLECTION", "timetable")
	v.SetDefault("STORE_BACKEND", BackendFirestore)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "timetable")
	v.SetDefault("UPLOAD_MODE", ModeDirect)
	v.SetDefault("UPLOAD_CONCURRENCY", 1)
	v.SetDefault("UPLOAD_WRITES_PER_SECOND", 0)
	v.SetDefault("UPLOAD_WRITE_TIMEOUT", "10s")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 3)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("NOTIFY_TOPIC", "")
	v.SetDefault("SENTRY_DSN", "")
}

// Load reads configuration from config.yaml (if present) and the environment.
func Load(v *viper.Viper) (Config, error) {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadConfig fills AppConfig from the global viper instance.
func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
