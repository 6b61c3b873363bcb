package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorePostgres, cfg.Store.Driver)
	assert.Equal(t, "read committed", cfg.DB.Isolation)
	assert.Equal(t, 3, cfg.DB.TxRetries)
	assert.Equal(t, "America/Bogota", cfg.App.Timezone)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.Throttle.Enabled())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("DB_ISOLATION", "Serializable")
	t.Setenv("DB_TX_RETRIES", "5")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("THROTTLE_LIMIT", "0")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "serializable", cfg.DB.Isolation)
	assert.Equal(t, 5, cfg.DB.TxRetries)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.Throttle.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestDSN_EscapaPassword(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/inv?sslmode=disable", db.DSN())

	db.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", db.ConnectionString())
}

func TestValidate_RechazaValoresInvalidos(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			App:   config.AppConfig{Env: "development", Timezone: "UTC"},
			Store: config.StoreConfig{Driver: config.StoreMemory},
			DB:    config.DBConfig{Isolation: "read committed"},
		}
	}
	require.NoError(t, base().Validate())

	cases := map[string]func(c *config.Config){
		"driver":       func(c *config.Config) { c.Store.Driver = "mysql" },
		"aislamiento":  func(c *config.Config) { c.DB.Isolation = "chaos" },
		"zona horaria": func(c *config.Config) { c.App.Timezone = "Marte/Olympus" },
		"jwt en prod":  func(c *config.Config) { c.App.Env = "production" },
		"bootstrap":    func(c *config.Config) { c.Bootstrap = config.BootstrapConfig{Username: "root", Password: "123"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
