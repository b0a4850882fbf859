package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/scheduling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/tournament?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
	for _, k := range []string{
		"SERVER_PORT", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "SCHEDULE_CONFIG_PATH",
		"SCHEDULE_DAYS", "SCHEDULE_TIMES", "SCHEDULE_WEEKS", "SCHEDULE_STARTING_DISCIPLINE",
		"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, scheduling.DefaultConfig(), cfg.Schedule)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoadRequiredAndInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing database url", "DATABASE_URL", ""},
		{"missing jwt secret", "JWT_SECRET_KEY", ""},
		{"port not a number", "SERVER_PORT", "http"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad log level", "LOG_LEVEL", "loud"},
		{"bad weeks", "SCHEDULE_WEEKS", "four"},
		{"zero weeks", "SCHEDULE_WEEKS", "0"},
		{"football cannot start the rotation", "SCHEDULE_STARTING_DISCIPLINE", "football"},
		{"unknown discipline", "SCHEDULE_STARTING_DISCIPLINE", "chess"},
		{"duplicate times", "SCHEDULE_TIMES", "08:00,08:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SCHEDULE_DAYS", "Lunes,Martes")
	t.Setenv("SCHEDULE_STARTING_DISCIPLINE", "Basketball")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"Lunes", "Martes"}, cfg.Schedule.Days)
	assert.Equal(t, models.DisciplineBasketball, cfg.Schedule.StartingDiscipline)
}

func TestLoadScheduleFile(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
days: [Monday, Wednesday]
times: ["08:00", "09:30"]
weeks: 2
starting_discipline: basketball
`), 0o600))

	cfg, err := LoadSchedule(path)
	require.NoError(t, err)
	assert.Equal(t, scheduling.Config{
		Days:               []string{"Monday", "Wednesday"},
		Times:              []string{"08:00", "09:30"},
		Weeks:              2,
		StartingDiscipline: models.DisciplineBasketball,
	}, cfg)

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("SCHEDULE_WEEKS", "3")
		cfg, err := LoadSchedule(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Weeks)
		assert.Equal(t, []string{"Monday", "Wednesday"}, cfg.Days)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSchedule(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("days: [unterminated"), 0o600))
		_, err := LoadSchedule(bad)
		assert.Error(t, err)
	})
}
