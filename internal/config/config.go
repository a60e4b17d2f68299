// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values. Strings for identifiers and
// secrets, ints/durations for limits and lifetimes.
type Config struct {
	Env  string // application environment ("dev", "test", "prod")
	Port string // HTTP port to listen on

	JWTSecret     string        // secret used to sign session tokens
	SessionTTL    time.Duration // session token lifetime
	BcryptCost    int           // bcrypt cost for password hashing
	ResetTokenTTL time.Duration // password reset token lifetime

	AllowedOrigins []string // CORS allow-list; other origins fail closed

	StoreDriver  string // "json" or "mysql"
	JSONFilePath string // dataset path for the json driver
	DBUser       string
	DBPass       string
	DBHost       string
	DBPort       string
	DBName       string

	BlobDriver       string // "local" or "s3"
	UploadDir        string // blob root for the local driver
	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3ForcePathStyle bool

	MaxUploadBytes int64 // inbound upload size cap

	RabbitURL string // optional; audit event fanout disabled when empty
}

// Load reads configuration from the environment, applying the documented
// defaults. JWT_SECRET has no default in production-like environments.
func Load() Config {
	env := envStr("APP_ENV", "dev")
	port := envStr("APP_PORT", "4000")

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if isProd(env) {
			log.Fatal("missing required env var: JWT_SECRET")
		}
		secret = "dev-secret-change-me"
	}

	origins := splitList(envStr("ALLOWED_ORIGINS",
		"http://localhost:"+port+",http://127.0.0.1:"+port+",http://localhost:5500,http://127.0.0.1:5500"))

	blobDriver := envStr("BLOB_DRIVER", "")
	bucket := os.Getenv("S3_BUCKET")
	region := os.Getenv("S3_REGION")
	if blobDriver == "" {
		if bucket != "" && region != "" {
			blobDriver = "s3"
		} else {
			blobDriver = "local"
		}
	}

	return Config{
		Env:  env,
		Port: port,

		JWTSecret:     secret,
		SessionTTL:    time.Duration(envInt("SESSION_TTL_HOURS", 168)) * time.Hour,
		BcryptCost:    envInt("BCRYPT_COST", 10),
		ResetTokenTTL: time.Duration(envInt("PASSWORD_RESET_TOKEN_TTL_MINUTES", 30)) * time.Minute,

		AllowedOrigins: origins,

		StoreDriver:  envStr("STORE_DRIVER", "json"),
		JSONFilePath: envStr("JSON_FILE_PATH", "data/lawease.json"),
		DBUser:       os.Getenv("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       envStr("DB_HOST", "localhost"),
		DBPort:       envStr("DB_PORT", "3306"),
		DBName:       envStr("DB_NAME", "lawease"),

		BlobDriver:       blobDriver,
		UploadDir:        envStr("UPLOAD_DIR", "uploads"),
		S3Bucket:         bucket,
		S3Region:         region,
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3ForcePathStyle: envBool("S3_FORCE_PATH_STYLE", false),

		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", 8<<20)),

		RabbitURL: firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
	}
}

// IsProd reports whether the config targets a production-like deployment.
// Raw reset tokens are only echoed back outside production.
func (c Config) IsProd() bool { return isProd(c.Env) }

func isProd(env string) bool {
	return env == "prod" || env == "production"
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
