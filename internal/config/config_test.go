package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/scheduler"
	"github.com/at-ishikawa/recall/internal/testutil"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                   8080,
			CORS:                   CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
			ShutdownTimeoutSeconds: 10,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "recall",
			Username: "recall",
		},
		Scheduler: SchedulerConfig{
			InitialEaseFactor:      2.5,
			MinEaseFactor:          1.3,
			FirstIntervalDays:      1,
			SecondIntervalDays:     6,
			MaxIntervalDays:        365,
			RetirementIntervalDays: 90,
			PassingQuality:         3,
		},
		Study: StudyConfig{LearnerHeader: "X-Learner-Id"},
		Generation: GenerationConfig{
			TimeoutSeconds:   60,
			MaxRetryAttempts: 3,
		},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		env               map[string]string
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:          "empty file uses defaults",
			configContent: "",
			want:          defaultConfig,
		},
		{
			name: "custom values",
			configContent: `server:
  port: 9090
database:
  host: db.internal
  database: study
scheduler:
  max_interval_days: 180
  retirement_interval_days: 60
  reset_retirement_on_lapse: true
generation:
  base_url: https://generator.example.com
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Server.Port = 9090
				cfg.Database.Host = "db.internal"
				cfg.Database.Database = "study"
				cfg.Scheduler.MaxIntervalDays = 180
				cfg.Scheduler.RetirementIntervalDays = 60
				cfg.Scheduler.ResetRetirementOnLapse = true
				cfg.Generation.BaseURL = "https://generator.example.com"
				return cfg
			},
		},
		{
			name:          "secrets come from environment",
			configContent: "",
			env: map[string]string{
				"DB_PASSWORD":               "s3cret",
				"RECALL_GENERATION_API_KEY": "gen-key",
			},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Database.Password = "s3cret"
				cfg.Generation.APIKey = "gen-key"
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `server:
  port: 9090
  invalid yaml format here [[[
`,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "scheduler bounds are validated",
			configContent: `scheduler:
  min_ease_factor: 1.1
  passing_quality: 7
`,
			wantErrorContains: []string{
				"invalid configuration",
				"min_ease_factor must be 1.3 or greater",
				"passing_quality must be 5 or less",
			},
		},
		{
			name: "max interval must not be shorter than second interval",
			configContent: `scheduler:
  max_interval_days: 3
`,
			wantErrorContains: []string{"max_interval_days must be greater than or equal to SecondIntervalDays"},
		},
		{
			name: "generation base url must be a url",
			configContent: `generation:
  base_url: not a url
`,
			wantErrorContains: []string{"base_url must be a valid URL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			configFile := testutil.WriteConfig(t, t.TempDir(), tt.configContent)

			loader, err := NewConfigLoader(configFile)
			require.NoError(t, err)
			got, err := loader.Load()
			if len(tt.wantErrorContains) > 0 {
				require.Error(t, err)
				for _, want := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), want)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestSchedulerConfig_SchedulerConfig(t *testing.T) {
	got := defaultConfig().Scheduler.SchedulerConfig()
	assert.Equal(t, scheduler.DefaultConfig(), got)

	_, err := scheduler.New(got)
	assert.NoError(t, err)
}
