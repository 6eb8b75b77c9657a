package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORE_BACKEND", "DB_CONN_STR", "DB_HOST", "DB_NAME", "API_TOKEN", "KAFKA_BROKERS", "GRPC_ADDR"} {
		t.Setenv(key, "")
	}

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, StoreBackendPostgres, cfg.StoreBackend)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=kidbank sslmode=disable", cfg.DBConnStr)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, ":8080", cfg.GRPCAddr)
	assert.Equal(t, "dev-token", cfg.APIToken)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("DB_CONN_STR", "postgres://kid:bank@db/kidbank")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("API_TOKEN", "secret")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_TOPIC", "ledger")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, StoreBackendMemory, cfg.StoreBackend)
	assert.Equal(t, "postgres://kid:bank@db/kidbank", cfg.DBConnStr)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "ledger", cfg.KafkaTopic)
}

func TestLoad_BuildsConnStrFromParts(t *testing.T) {
	t.Setenv("DB_CONN_STR", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "savings")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Contains(t, cfg.DBConnStr, "host=db")
	assert.Contains(t, cfg.DBConnStr, "dbname=savings")
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")

	_, err := load(viper.New())
	assert.ErrorContains(t, err, "invalid STORE_BACKEND")
}
