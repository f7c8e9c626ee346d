package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	// AdminEmail is the single administrative identity: OTP codes go to it
	// and session tokens assert it. AdminPhone is optional; when set, new
	// contact submissions trigger an SMS alert via SNS.
	AdminEmail string
	AdminPhone string

	// JWTSecret signs session tokens (HS256). Empty is a startup error
	// unless JWTAllowEphemeral is set, in which case a random secret is
	// generated and every issued token dies with the process.
	JWTSecret         string
	JWTAllowEphemeral bool
	JWTExpiry         time.Duration

	// OTPStore selects the backing store: "memory" (default) or "dynamo".
	OTPStore  string
	OTPExpiry time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	// SiteBaseURL is the public site root used to build post links in
	// subscriber emails.
	SiteBaseURL    string
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Posts       string
	Submissions string
	Subscribers string
	OTPCodes    string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "5000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Posts:       getEnv("DYNAMO_TABLE_POSTS", "blog_posts"),
			Submissions: getEnv("DYNAMO_TABLE_SUBMISSIONS", "submissions"),
			Subscribers: getEnv("DYNAMO_TABLE_SUBSCRIBERS", "subscribers"),
			OTPCodes:    getEnv("DYNAMO_TABLE_OTP_CODES", "otp_codes"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "site-uploads"),

		AdminEmail: getEnv("ADMIN_EMAIL", ""),
		AdminPhone: getEnv("ADMIN_PHONE", ""),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTAllowEphemeral: getEnvBool("JWT_ALLOW_EPHEMERAL_SECRET", false),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 24*time.Hour),

		OTPStore:  getEnv("OTP_STORE", "memory"),
		OTPExpiry: getEnvDuration("OTP_EXPIRY", 5*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SiteBaseURL:    getEnv("SITE_BASE_URL", "https://exim.drehill.in"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
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
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
