package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS  = "" // e.g. "example.com,example2.com"
	BIND_ADDRESS = "0.0.0.0:8080"
	DEBUG_MODE   = true
	// Database: the first non-empty of MYSQL_DSN, POSTGRES_DSN, SQLITE_FILE is used
	MYSQL_DSN    = ""
	POSTGRES_DSN = ""
	SQLITE_FILE  = "feedserver.db"
	// Identity
	SESSION_KEY   = "this is a long key"
	JWT_SECRET    = "change me"
	JWT_TTL_HOURS = 24
	LOGIN_PATH    = "/auth/login"
	// Global feed page cache. If REDIS_ADDR is set, pages are kept in redis instead of process memory
	FEED_CACHE_TTL       = 20 // seconds
	FEED_CACHE_MAX_PAGES = 1000
	REDIS_ADDR           = ""
	REDIS_PASSWORD       = ""
	REDIS_DB             = 0
	// Post images
	MEDIA_STORAGE  = "disk" // disk, s3 or minio
	MEDIA_DIR      = "./media"
	MEDIA_URL      = "/media"
	IMAGE_MAX_SIZE = 1280 // longest side in pixels, 0 disables resizing
	S3_BUCKET      = ""
	S3_REGION      = "us-east-1"
	S3_ENDPOINT    = "" // for S3 compatible services
	S3_KEY         = ""
	S3_SECRET      = ""
	MINIO_ENDPOINT = "127.0.0.1:9000"
	MINIO_KEY      = ""
	MINIO_SECRET   = ""
	MINIO_BUCKET   = "posts"
	MINIO_SSL      = false
)

func init() {
	// Values already present in the environment take precedence over .env
	_ = godotenv.Load()

	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("POSTGRES_DSN", &POSTGRES_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvString("JWT_SECRET", &JWT_SECRET)
	readEnvInt("JWT_TTL_HOURS", &JWT_TTL_HOURS)
	readEnvString("LOGIN_PATH", &LOGIN_PATH)
	readEnvInt("FEED_CACHE_TTL", &FEED_CACHE_TTL)
	readEnvInt("FEED_CACHE_MAX_PAGES", &FEED_CACHE_MAX_PAGES)
	readEnvString("REDIS_ADDR", &REDIS_ADDR)
	readEnvString("REDIS_PASSWORD", &REDIS_PASSWORD)
	readEnvInt("REDIS_DB", &REDIS_DB)
	readEnvString("MEDIA_STORAGE", &MEDIA_STORAGE)
	readEnvString("MEDIA_DIR", &MEDIA_DIR)
	readEnvString("MEDIA_URL", &MEDIA_URL)
	readEnvInt("IMAGE_MAX_SIZE", &IMAGE_MAX_SIZE)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_KEY", &S3_KEY)
	readEnvString("S3_SECRET", &S3_SECRET)
	readEnvString("MINIO_ENDPOINT", &MINIO_ENDPOINT)
	readEnvString("MINIO_KEY", &MINIO_KEY)
	readEnvString("MINIO_SECRET", &MINIO_SECRET)
	readEnvString("MINIO_BUCKET", &MINIO_BUCKET)
	readEnvBool("MINIO_SSL", &MINIO_SSL)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
