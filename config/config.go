package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP        ServerConfig
	GRPC        ServerConfig
	MySQL       MySQLConfig
	JWT         JWTConfig
	Password    PasswordConfig
	QuickAccess QuickAccessConfig
	Hydration   HydrationConfig
	Log         LogConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN string
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

type PasswordConfig struct {
	Policy PasswordPolicy
}

// QuickAccessConfig throttles the public redemption route per client IP.
// The per-account cooldown is not configurable.
type QuickAccessConfig struct {
	RateLimit float64
	RateBurst int
}

type HydrationConfig struct {
	Location *time.Location
}

type LogConfig struct {
	Level  string
	Format string
}

type PasswordPolicy struct {
	MinLength        int
	MaxLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("password must be at least %d characters long", p.MinLength)
	}
	if p.MaxLength > 0 && len(password) > p.MaxLength {
		return fmt.Errorf("password cannot exceed %d characters", p.MaxLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasNumber = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSpecial = true
		}
	}

	var missing []string
	if p.RequireUppercase && !hasUpper {
		missing = append(missing, "uppercase letter")
	}
	if p.RequireLowercase && !hasLower {
		missing = append(missing, "lowercase letter")
	}
	if p.RequireNumber && !hasNumber {
		missing = append(missing, "number")
	}
	if p.RequireSpecial && !hasSpecial {
		missing = append(missing, "special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("password must contain at least one: %s", strings.Join(missing, ", "))
	}

	return nil
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	location, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return &Config{
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", ""),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", ""),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		MySQL: MySQLConfig{DSN: mysqlDSN},
		JWT: JWTConfig{
			Secret:         jwtSecret,
			AccessTokenTTL: getDurationEnv("JWT_ACCESS_TOKEN_TTL", 24*time.Hour),
		},
		Password: PasswordConfig{Policy: loadPasswordPolicy()},
		QuickAccess: QuickAccessConfig{
			RateLimit: getFloatEnv("QUICK_ACCESS_RATE_LIMIT", 1),
			RateBurst: getIntEnv("QUICK_ACCESS_RATE_BURST", 5),
		},
		Hydration: HydrationConfig{Location: location},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func (c *Config) DSN() string {
	return c.MySQL.DSN
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// bcrypt ignores input beyond 72 bytes.
func loadPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        getIntEnv("PASSWORD_MIN_LENGTH", 8),
		MaxLength:        72,
		RequireUppercase: getBoolEnv("PASSWORD_REQUIRE_UPPERCASE", true),
		RequireLowercase: getBoolEnv("PASSWORD_REQUIRE_LOWERCASE", true),
		RequireNumber:    getBoolEnv("PASSWORD_REQUIRE_NUMBER", true),
		RequireSpecial:   getBoolEnv("PASSWORD_REQUIRE_SPECIAL", false),
	}
}
