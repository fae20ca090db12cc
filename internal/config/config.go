package config

import (
	"os"      // For environment variables
	"strconv" // For string to number conversion
	"strings" // For splitting list values

	"github.com/joho/godotenv"   // For loading .env files
	"github.com/sirupsen/logrus" // Logrus for startup warnings
)

// Insecure fallbacks used when the environment does not provide a secret
const (
	defaultAccessSecret       = "my_access_secret_key"
	defaultRefreshSecret      = "my_refresh_secret_key"
	defaultRegisterSecret     = "my_register_secret_key"
	defaultAdminAccessSecret  = "my_admin_access_secret_key"
	defaultAdminRefreshSecret = "my_admin_refresh_secret_key"
)

// Config holds the application configuration
type Config struct {
	AppPort string // Application port
	IsProd  bool   // Is production environment

	DBDriver   string // mysql, postgres or sqlite
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	DBSSLMode  string // Postgres sslmode
	SQLitePath string // SQLite file path

	RedisAddr string // Redis server address
	RedisPass string // Redis password
	RedisDB   int    // Redis database number

	AccessSecret       string // User access token secret
	RefreshSecret      string // User refresh token secret
	RegisterSecret     string // User register token secret
	AdminAccessSecret  string // Admin access token secret
	AdminRefreshSecret string // Admin refresh token secret

	MailHost string // SMTP host, empty disables delivery
	MailPort string // SMTP port
	MailUser string // SMTP user, also the sender address
	MailPass string // SMTP password

	AdminUsername string // Bootstrap admin username
	AdminPassword string // Bootstrap admin password

	StorageDriver string // disk or s3
	UploadDir     string // Root directory for disk uploads
	S3Bucket      string // Bucket for s3 uploads
	PublicBaseURL string // Prefix used when building public file URLs

	CORSOrigins    []string // Allowed CORS origins
	RateLimitRPS   float64  // Per-IP requests per second on auth routes
	RateLimitBurst int      // Per-IP burst on auth routes

	OTPMaxPerWindow  int // Codes allowed per identifier per window
	OTPWindowMinutes int // Length of the OTP request window
	ListCacheSeconds int // TTL of cached admin listings
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		IsProd:  os.Getenv("IS_PROD") == "true",

		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "coffeeme"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "coffeeme.db"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: os.Getenv("REDIS_PASS"),
		RedisDB:   getInt("REDIS_DB", 0),

		AccessSecret:       getEnv("ACCESS_SECRET_KEY", defaultAccessSecret),
		RefreshSecret:      getEnv("REFRESH_SECRET_KEY", defaultRefreshSecret),
		RegisterSecret:     getEnv("REGISTER_SECRET_KEY", defaultRegisterSecret),
		AdminAccessSecret:  getEnv("ADMIN_ACCESS_SECRET_KEY", defaultAdminAccessSecret),
		AdminRefreshSecret: getEnv("ADMIN_REFRESH_SECRET_KEY", defaultAdminRefreshSecret),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: getEnv("MAIL_PORT", "587"),
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),

		AdminUsername: getEnv("ADMIN_USERNAME", "adminCoffeeMe"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "adminpassword"),

		StorageDriver: getEnv("STORAGE_DRIVER", "disk"),
		UploadDir:     getEnv("UPLOAD_DIR", "public"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "/public"),

		CORSOrigins:    strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 20),

		OTPMaxPerWindow:  getInt("OTP_MAX_PER_WINDOW", 5),
		OTPWindowMinutes: getInt("OTP_WINDOW_MINUTES", 10),
		ListCacheSeconds: getInt("LIST_CACHE_SECONDS", 60),
	}
	cfg.warnInsecureDefaults()
	return cfg
}

// warnInsecureDefaults logs every secret that still carries its hardcoded fallback
func (c *Config) warnInsecureDefaults() {
	defaults := map[string]bool{
		"ACCESS_SECRET_KEY":        c.AccessSecret == defaultAccessSecret,
		"REFRESH_SECRET_KEY":       c.RefreshSecret == defaultRefreshSecret,
		"REGISTER_SECRET_KEY":      c.RegisterSecret == defaultRegisterSecret,
		"ADMIN_ACCESS_SECRET_KEY":  c.AdminAccessSecret == defaultAdminAccessSecret,
		"ADMIN_REFRESH_SECRET_KEY": c.AdminRefreshSecret == defaultAdminRefreshSecret,
	}
	for key, insecure := range defaults {
		if insecure {
			entry := logrus.WithField("key", key)
			if c.IsProd {
				entry.Error("insecure default secret in production")
			} else {
				entry.Warn("using insecure default secret")
			}
		}
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
