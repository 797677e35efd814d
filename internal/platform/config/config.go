package config

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
	StoreDriverMemory   = "memory"
)

var (
	ErrMissingJWTSecret  = errors.New("JWT_SECRET is missing in environment variables")
	ErrInvalidTTL        = errors.New("invalid JWT_EXPIRES_IN value")
	ErrUnknownStore      = errors.New("unknown STORE_DRIVER")
	ErrInvalidBcryptCost = errors.New("invalid BCRYPT_COST value")
)

type Config struct {
	APIPort   string
	ClientURL string

	JWTKey []byte
	JWTExp time.Duration

	BcryptCost int

	StoreDriver string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string
	DBMigrate  bool

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the process environment.
// A missing JWT_SECRET is reported as ErrMissingJWTSecret; callers treat it
// as fatal before accepting traffic.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("API_PORT", "5000")
	v.SetDefault("CLIENT_URL", "http://localhost:8100")
	v.SetDefault("JWT_EXPIRES_IN", "1d")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "authgate")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "authgate")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	_ = v.BindEnv("JWT_SECRET")
	_ = v.BindEnv("DATABASE_URL")

	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingJWTSecret
	}

	ttl, err := ParseTTL(v.GetString("JWT_EXPIRES_IN"))
	if err != nil {
		return nil, err
	}

	cost := v.GetInt("BCRYPT_COST")
	if cost < 4 || cost > 31 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBcryptCost, cost)
	}

	driver := strings.ToLower(v.GetString("STORE_DRIVER"))
	switch driver {
	case StoreDriverPostgres, StoreDriverRedis, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, driver)
	}

	cfg := &Config{
		APIPort:        v.GetString("API_PORT"),
		ClientURL:      v.GetString("CLIENT_URL"),
		JWTKey:         []byte(secret),
		JWTExp:         ttl,
		BcryptCost:     cost,
		StoreDriver:    driver,
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBSslMode:      v.GetString("DB_SSLMODE"),
		DBMigrate:      v.GetBool("DB_MIGRATE"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		RedisKeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
	}

	cfg.DBConnStr = v.GetString("DATABASE_URL")
	if cfg.DBConnStr == "" {
		cfg.DBConnStr = "host=" + cfg.DBHost +
			" port=" + cfg.DBPort +
			" user=" + cfg.DBUser +
			" password=" + cfg.DBPassword +
			" dbname=" + cfg.DBName +
			" sslmode=" + cfg.DBSslMode
	}

	return cfg, nil
}

// ParseTTL accepts Go durations ("12h", "90m") and whole days ("1d", "7d").
// A bare number is read as seconds.
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidTTL
	}

	var d time.Duration
	switch {
	case strings.HasSuffix(s, "d"):
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTTL, s)
		}
		d = time.Duration(days) * 24 * time.Hour
	default:
		if secs, err := strconv.Atoi(s); err == nil {
			d = time.Duration(secs) * time.Second
			break
		}
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTTL, s)
		}
		d = parsed
	}

	if d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTTL, s)
	}
	return d, nil
}
