package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type RosterDriver string

const (
	RosterMemory RosterDriver = "memory"
	RosterSQL    RosterDriver = "sql"
	RosterRedis  RosterDriver = "redis"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	RosterDriver   RosterDriver
	RosterSeedXLSX string // optional workbook imported at startup

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DefaultFee  int
	EnableAudit bool

	CORSOrigins []string

	LogLevel  slog.Level
	LogFormat string // json|text
}

// Load reads .env files (missing files are ignored) and then the environment.
// Variables already set in the environment win over .env values.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	return Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		RosterDriver:   RosterDriver(strings.ToLower(envOr("ROSTER_DRIVER", string(RosterMemory)))),
		RosterSeedXLSX: os.Getenv("ROSTER_SEED_XLSX"),
		RedisAddr:      envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		DefaultFee:     envInt("DEFAULT_FEE", 10000),
		EnableAudit:    envBool("ENABLE_AUDIT", true),
		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000"),
		LogLevel:       envLevel("LOG_LEVEL", slog.LevelInfo),
		LogFormat:      strings.ToLower(envOr("LOG_FORMAT", "text")),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}
func envLevel(k string, def slog.Level) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(os.Getenv(k))); err != nil {
		return def
	}
	return l
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
