package config

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/at-ishikawa/recall/internal/scheduler"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Study      StudyConfig      `mapstructure:"study"`
	Generation GenerationConfig `mapstructure:"generation"`
}

type ServerConfig struct {
	Port                   int        `mapstructure:"port" validate:"gte=1,lte=65535"`
	CORS                   CORSConfig `mapstructure:"cors"`
	ShutdownTimeoutSeconds int        `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host" validate:"required"`
	Port            int               `mapstructure:"port" validate:"gte=1,lte=65535"`
	Database        string            `mapstructure:"database" validate:"required"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type SchedulerConfig struct {
	InitialEaseFactor      float64 `mapstructure:"initial_ease_factor" validate:"gtefield=MinEaseFactor"`
	MinEaseFactor          float64 `mapstructure:"min_ease_factor" validate:"gte=1.3"`
	FirstIntervalDays      int     `mapstructure:"first_interval_days" validate:"gte=1"`
	SecondIntervalDays     int     `mapstructure:"second_interval_days" validate:"gtefield=FirstIntervalDays"`
	MaxIntervalDays        int     `mapstructure:"max_interval_days" validate:"gtefield=SecondIntervalDays"`
	RetirementIntervalDays int     `mapstructure:"retirement_interval_days" validate:"gte=1"`
	PassingQuality         int     `mapstructure:"passing_quality" validate:"gte=0,lte=5"`
	ResetRetirementOnLapse bool    `mapstructure:"reset_retirement_on_lapse"`
}

// SchedulerConfig converts the loaded values into a scheduler configuration.
func (c SchedulerConfig) SchedulerConfig() scheduler.Config {
	return scheduler.Config{
		InitialEaseFactor:      c.InitialEaseFactor,
		MinEaseFactor:          c.MinEaseFactor,
		FirstIntervalDays:      c.FirstIntervalDays,
		SecondIntervalDays:     c.SecondIntervalDays,
		MaxIntervalDays:        c.MaxIntervalDays,
		RetirementIntervalDays: c.RetirementIntervalDays,
		PassingQuality:         c.PassingQuality,
		ResetRetirementOnLapse: c.ResetRetirementOnLapse,
	}
}

type StudyConfig struct {
	LearnerHeader string `mapstructure:"learner_header" validate:"required"`
}

type GenerationConfig struct {
	BaseURL          string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey           string `mapstructure:"api_key"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds" validate:"gte=1"`
	MaxRetryAttempts uint   `mapstructure:"max_retry_attempts" validate:"lte=10"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/recall")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "recall")
	v.SetDefault("database.username", "recall")

	defaults := scheduler.DefaultConfig()
	v.SetDefault("scheduler.initial_ease_factor", defaults.InitialEaseFactor)
	v.SetDefault("scheduler.min_ease_factor", defaults.MinEaseFactor)
	v.SetDefault("scheduler.first_interval_days", defaults.FirstIntervalDays)
	v.SetDefault("scheduler.second_interval_days", defaults.SecondIntervalDays)
	v.SetDefault("scheduler.max_interval_days", defaults.MaxIntervalDays)
	v.SetDefault("scheduler.retirement_interval_days", defaults.RetirementIntervalDays)
	v.SetDefault("scheduler.passing_quality", defaults.PassingQuality)
	v.SetDefault("scheduler.reset_retirement_on_lapse", false)

	v.SetDefault("study.learner_header", "X-Learner-Id")
	v.SetDefault("generation.timeout_seconds", 60)
	v.SetDefault("generation.max_retry_attempts", 3)

	// Secrets are bound to environment variables
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("generation.api_key", "RECALL_GENERATION_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind RECALL_GENERATION_API_KEY environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
