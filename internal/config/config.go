package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends
const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Config holds application configuration.
// Values come from the environment, optionally seeded from a .env file.
type Config struct {
	StoreBackend  string
	DBConnStr     string
	RunMigrations bool

	GRPCAddr    string
	MetricsAddr string
	APIToken    string
	LogLevel    string

	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from the environment.
// A .env file in the working directory is loaded first if present; real env vars win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("STORE_BACKEND", StoreBackendPostgres)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "kidbank")
	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("API_TOKEN", "dev-token")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "transaction_posted")
	v.AutomaticEnv()

	cfg := &Config{
		StoreBackend:  strings.ToLower(v.GetString("STORE_BACKEND")),
		DBConnStr:     v.GetString("DB_CONN_STR"),
		RunMigrations: v.GetBool("RUN_MIGRATIONS"),
		GRPCAddr:      v.GetString("GRPC_ADDR"),
		MetricsAddr:   v.GetString("METRICS_ADDR"),
		APIToken:      v.GetString("API_TOKEN"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		KafkaBrokers:  splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:    v.GetString("KAFKA_TOPIC"),
	}

	if cfg.DBConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			v.GetString("DB_HOST"),
			v.GetString("DB_PORT"),
			v.GetString("DB_USER"),
			v.GetString("DB_PASSWORD"),
			v.GetString("DB_NAME"),
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can start the service
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendPostgres, StoreBackendMemory:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q: must be %s or %s", c.StoreBackend, StoreBackendPostgres, StoreBackendMemory)
	}

	if c.APIToken == "" {
		return fmt.Errorf("API_TOKEN must not be empty")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
