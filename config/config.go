package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort             string   `mapstructure:"HTTP_PORT"`
	GRPCPort             string   `mapstructure:"GRPC_PORT"`
	DBDriver             string   `mapstructure:"DB_DRIVER"`
	DBHost               string   `mapstructure:"DB_HOST"`
	DBPort               string   `mapstructure:"DB_PORT"`
	DBUser               string   `mapstructure:"DB_USER"`
	DBPassword           string   `mapstructure:"DB_PASSWORD"`
	DBName               string   `mapstructure:"DB_NAME"`
	SQLitePath           string   `mapstructure:"SQLITE_PATH"`
	RedisAddr            string   `mapstructure:"REDIS_ADDR"`
	AccessSecret         string   `mapstructure:"ACCESS_SECRET"`
	RefreshSecret        string   `mapstructure:"REFRESH_SECRET"`
	AllowedOrigins       []string `mapstructure:"ALLOWED_ORIGINS"`
	Timezone             string   `mapstructure:"TIMEZONE"`
	BadgeRulesPath       string   `mapstructure:"BADGE_RULES_PATH"`
	AnalyticsDefaultDays int      `mapstructure:"ANALYTICS_DEFAULT_DAYS"`
	AnalyticsMaxDays     int      `mapstructure:"ANALYTICS_MAX_DAYS"`
	LogDir               string   `mapstructure:"LOG_DIR"`
	Debug                bool     `mapstructure:"DEBUG"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var defaults = map[string]any{
	"HTTP_PORT":              ":8080",
	"GRPC_PORT":              ":9090",
	"DB_DRIVER":              DriverPostgres,
	"DB_HOST":                "localhost",
	"DB_PORT":                "5432",
	"DB_USER":                "postgres",
	"DB_PASSWORD":            "",
	"DB_NAME":                "lifequest",
	"SQLITE_PATH":            "lifequest.db",
	"REDIS_ADDR":             "localhost:6379",
	"ACCESS_SECRET":          "",
	"REFRESH_SECRET":         "",
	"ALLOWED_ORIGINS":        "http://localhost:3000",
	"TIMEZONE":               "UTC",
	"BADGE_RULES_PATH":       "",
	"ANALYTICS_DEFAULT_DAYS": 30,
	"ANALYTICS_MAX_DAYS":     365,
	"LOG_DIR":                "logs",
	"DEBUG":                  false,
}

// LoadConfig reads app.env from path if present; environment variables
// always win over the file.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	err = config.Validate()
	return
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.AnalyticsMaxDays < 1 {
		return fmt.Errorf("config: ANALYTICS_MAX_DAYS must be positive, got %d", c.AnalyticsMaxDays)
	}
	if c.AnalyticsDefaultDays < 1 || c.AnalyticsDefaultDays > c.AnalyticsMaxDays {
		return fmt.Errorf("config: ANALYTICS_DEFAULT_DAYS must be within 1..%d, got %d", c.AnalyticsMaxDays, c.AnalyticsDefaultDays)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// RequireSecrets is checked only by commands that issue tokens.
func (c Config) RequireSecrets() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("config: ACCESS_SECRET and REFRESH_SECRET must be set")
	}
	return nil
}

// Location is the single reference zone every day boundary is computed in.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: TIMEZONE: %w", err)
	}
	return loc, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
