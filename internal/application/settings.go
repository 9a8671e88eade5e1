package application

import (
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahrav/go-validlength/infrastructure/middleware"
	"github.com/ahrav/go-validlength/internal/logging"
)

// SettingsEnvPrefix prefixes every environment variable read by LoadSettings.
const SettingsEnvPrefix = "VALIDLENGTH_"

// Settings holds the runtime knobs of a guard host. Each field is read from
// the environment with SettingsEnvPrefix prepended to its variable name.
type Settings struct {
	MaxConcurrency   int    `env:"MAX_CONCURRENCY" envDefault:"4" validate:"min=1,max=1024"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	MetricsEnabled   bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"validlength" validate:"required_if=MetricsEnabled true"`
}

// LoadSettings reads Settings from the process environment.
func LoadSettings() (Settings, error) {
	return parseSettings(env.Options{Prefix: SettingsEnvPrefix})
}

// LoadSettingsFrom reads Settings from vars instead of the process
// environment. Keys must carry SettingsEnvPrefix.
func LoadSettingsFrom(vars map[string]string) (Settings, error) {
	return parseSettings(env.Options{Prefix: SettingsEnvPrefix, Environment: vars})
}

func parseSettings(opts env.Options) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := validator.New().Struct(s); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// GuardOptions turns s into guard options. Logs are written to w; metrics,
// when enabled, are registered with reg.
func (s Settings) GuardOptions(w io.Writer, reg prometheus.Registerer) []GuardOption {
	opts := []GuardOption{
		WithMaxConcurrency(s.MaxConcurrency),
		WithLogger(logging.New(w, s.LogLevel, s.LogFormat)),
	}
	if s.MetricsEnabled {
		opts = append(opts, WithMetrics(middleware.NewPrometheusMetrics(reg, s.MetricsNamespace)))
	}
	return opts
}
