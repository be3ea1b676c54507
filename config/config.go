// Package config exposes typed accessors over the process environment.
// Values are read after infra.Initialize has merged .env into the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort        = "8080"
	defaultEnv         = "local"
	defaultBaseURL     = "http://localhost:8080"
	defaultSQLitePath  = "bytemarket.db"
	defaultTokenDBPath = "token_blacklist.db"
	defaultMailName    = "ByteMarket"
	defaultKafkaTopic  = "bytemarket.checkout"
)

// Get returns the trimmed value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Bool parses key as a boolean; unparsable values yield fallback.
func Bool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(Get(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// Duration parses key with time.ParseDuration; unparsable values yield fallback.
func Duration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(Get(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// List splits a comma separated value, dropping empty entries.
func List(key string) []string {
	var out []string
	for _, part := range strings.Split(Get(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Env() string  { return Get("ENV", defaultEnv) }
func IsProd() bool { return Env() == "prod" || Env() == "production" }
func Port() string {
	// AWS_LWA_PORT is honoured for Lambda Web Adapter deployments.
	return Get("PORT", Get("AWS_LWA_PORT", defaultPort))
}
func BaseURL() string       { return strings.TrimRight(Get("BASE_URL", defaultBaseURL), "/") }
func SecretKey() string     { return Get("SECRET_KEY", "") }
func AutoMigrate() bool     { return Bool("AUTO_MIGRATE", false) }
func DBDriver() string      { return strings.ToLower(Get("DB_DRIVER", "")) }
func SQLitePath() string    { return Get("SQLITE_PATH", defaultSQLitePath) }
func TokenDBPath() string   { return Get("TOKEN_DB_PATH", defaultTokenDBPath) }
func RedisAddr() string     { return Get("REDIS_ADDR", "") }
func RedisPassword() string { return Get("REDIS_PASSWORD", "") }

func StripeSecretKey() string       { return Get("STRIPE_SECRET_KEY", "") }
func StripePublicKey() string       { return Get("STRIPE_PUBLIC_KEY", "") }
func PaymentTimeout() time.Duration { return Duration("PAYMENT_TIMEOUT", 10*time.Second) }
func VerifyCheckoutSession() bool   { return Bool("CHECKOUT_VERIFY_SESSION", false) }

func MailjetPublicKey() string   { return Get("MJ_APIKEY_PUBLIC", "") }
func MailjetSecretKey() string   { return Get("MJ_APIKEY_SECRET", "") }
func MailFrom() string           { return Get("MAIL_FROM", "no-reply@bytemarket.local") }
func MailFromName() string       { return Get("MAIL_FROM_NAME", defaultMailName) }
func MailTimeout() time.Duration { return Duration("MAIL_TIMEOUT", 10*time.Second) }

func AllowedOrigins() []string { return List("CORS_ALLOWED_ORIGINS") }

func KafkaBrokers() []string { return List("KAFKA_BROKERS") }
func KafkaTopic() string     { return Get("KAFKA_TOPIC", defaultKafkaTopic) }
