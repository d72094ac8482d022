package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/soaringjerry/Mindtrack/internal/utils"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Addr          string `validate:"required"`
	Env           string `validate:"oneof=development staging production"`
	LogLevel      string `validate:"oneof=debug info warn error"`
	Backend       string `validate:"oneof=sqlite postgres memory"`
	SQLitePath    string `validate:"required_if=Backend sqlite"`
	PostgresDSN   string `validate:"required_if=Backend postgres"`
	MigrationsDir string
	TimeZone      string `validate:"required"`
	MoodPoints    int    `validate:"oneof=5 7"`
	Locale        string `validate:"oneof=en zh"`
	SweepSpec     string `validate:"required"`
	CORSOrigins   []string
	Commit        string
	BuildTime     string

	Location *time.Location `validate:"-"`
}

var validate = validator.New()

// Load reads .env (when present) and the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	points, err := utils.EnvInt("MOOD_SCALE_POINTS", 5)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Addr:          utils.SafeEnv("MINDTRACK_ADDR", ":8080"),
		Env:           strings.ToLower(utils.SafeEnv("APP_ENV", "production")),
		LogLevel:      strings.ToLower(utils.SafeEnv("LOG_LEVEL", "info")),
		Backend:       strings.ToLower(utils.SafeEnv("STORAGE_BACKEND", "sqlite")),
		SQLitePath:    utils.SafeEnv("SQLITE_PATH", "data/mindtrack.db"),
		PostgresDSN:   utils.SafeEnv("POSTGRES_DSN", ""),
		MigrationsDir: utils.SafeEnv("MIGRATIONS_DIR", ""),
		TimeZone:      utils.SafeEnv("MINDTRACK_TZ", "Local"),
		MoodPoints:    points,
		Locale:        strings.ToLower(utils.SafeEnv("MINDTRACK_LOCALE", "en")),
		SweepSpec:     utils.SafeEnv("REMINDER_SWEEP_SPEC", "@every 1m"),
		CORSOrigins:   splitList(utils.SafeEnv("CORS_ORIGINS", "")),
		Commit:        utils.SafeEnv("MINDTRACK_COMMIT", ""),
		BuildTime:     utils.SafeEnv("MINDTRACK_BUILD_TIME", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints, resolves the time zone and parses the
// sweep schedule.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid config: MINDTRACK_TZ %q: %w", c.TimeZone, err)
	}
	c.Location = loc
	if _, err := cron.ParseStandard(c.SweepSpec); err != nil {
		return fmt.Errorf("invalid config: REMINDER_SWEEP_SPEC %q: %w", c.SweepSpec, err)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
