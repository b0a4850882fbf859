package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/scheduling"
	"github.com/Dosada05/school-tournament/storage"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every application setting.
type Config struct {
	DatabaseURL        string
	JWTSecretKey       string
	ServerPort         int
	CORSAllowedOrigins []string
	LogLevel           slog.Level
	R2                 storage.CloudflareR2UploaderConfig
	Schedule           scheduling.Config
}

// Load reads the configuration from the environment. A .env file is loaded
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	origins := splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	level := slog.LevelInfo
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
		}
	}

	schedule, err := LoadSchedule(os.Getenv("SCHEDULE_CONFIG_PATH"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		CORSAllowedOrigins: origins,
		LogLevel:           level,
		R2: storage.CloudflareR2UploaderConfig{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
		Schedule: schedule,
	}

	return cfg, nil
}

// LoadSchedule builds the weekly grid: defaults, then the YAML file at path
// (if any), then SCHEDULE_* variables. The result is validated.
func LoadSchedule(path string) (scheduling.Config, error) {
	cfg := scheduling.DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return scheduling.Config{}, fmt.Errorf("failed to read schedule config %s: %w", path, err)
		}
		var fromFile scheduling.Config
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return scheduling.Config{}, fmt.Errorf("failed to parse schedule config %s: %w", path, err)
		}
		if len(fromFile.Days) > 0 {
			cfg.Days = fromFile.Days
		}
		if len(fromFile.Times) > 0 {
			cfg.Times = fromFile.Times
		}
		if fromFile.Weeks != 0 {
			cfg.Weeks = fromFile.Weeks
		}
		if fromFile.StartingDiscipline != "" {
			cfg.StartingDiscipline = fromFile.StartingDiscipline
		}
	}

	if v := splitList(os.Getenv("SCHEDULE_DAYS")); len(v) > 0 {
		cfg.Days = v
	}
	if v := splitList(os.Getenv("SCHEDULE_TIMES")); len(v) > 0 {
		cfg.Times = v
	}
	if v := os.Getenv("SCHEDULE_WEEKS"); v != "" {
		weeks, err := strconv.Atoi(v)
		if err != nil {
			return scheduling.Config{}, fmt.Errorf("invalid SCHEDULE_WEEKS environment variable: %w", err)
		}
		cfg.Weeks = weeks
	}
	if v := os.Getenv("SCHEDULE_STARTING_DISCIPLINE"); v != "" {
		d, err := models.ParseDiscipline(v)
		if err != nil {
			return scheduling.Config{}, fmt.Errorf("invalid SCHEDULE_STARTING_DISCIPLINE environment variable: %w", err)
		}
		cfg.StartingDiscipline = d
	}

	if err := cfg.Validate(); err != nil {
		return scheduling.Config{}, err
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
