package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer         string // Issuer claim for session tokens (default: evote)
	BootstrapToken string // Optional: enables POST /v1/bootstrap when set

	NumKeys      int    // Signing keys generated at startup (default: 3, max: 10)
	DatabaseFile string // Path to the SQLite database (default: ./evote.db)
	PepperFile   string // Path to the password pepper file (default: ./pepper)

	OTPTTL          time.Duration // Lifetime of a one-time code (default: 15m)
	OTPMaxAttempts  int           // Wrong guesses before a code is locked (default: 5)
	VoterSessionTTL time.Duration // Voter session lifetime (default: 2h)
	AdminSessionTTL time.Duration // Administrator session lifetime (default: 1h)

	MailDriver   string // log or smtp (default: log)
	SMTPHost     string
	SMTPPort     int // default: 587
	SMTPUsername string
	SMTPPassword string
	MailFrom     string // default: evote@localhost

	Env                  string        // dev, staging, prod (default: dev)
	LogLevel             string        // debug, info, warn, error (default: info)
	LogFormat            string        // json, text (default: json)
	Port                 int           // HTTP port (default: 8080)
	ShutdownGracePeriod  time.Duration // default: 10s
	HousekeepingInterval time.Duration // default: 1h
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("EVOTE_ISSUER", "evote"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"),

		NumKeys:      getEnvIntOrDefault("SESSION_NUM_KEYS", 3),
		DatabaseFile: getEnvOrDefault("EVOTE_DATABASE_FILE", "evote.db"),
		PepperFile:   getEnvOrDefault("EVOTE_PEPPER_FILE", "pepper"),

		OTPTTL:          getEnvDurationOrDefault("OTP_TTL", 15*time.Minute),
		OTPMaxAttempts:  getEnvIntOrDefault("OTP_MAX_ATTEMPTS", 5),
		VoterSessionTTL: getEnvDurationOrDefault("VOTER_SESSION_TTL", 2*time.Hour),
		AdminSessionTTL: getEnvDurationOrDefault("ADMIN_SESSION_TTL", time.Hour),

		MailDriver:   getEnvOrDefault("MAIL_DRIVER", "log"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnvOrDefault("MAIL_FROM", "evote@localhost"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
