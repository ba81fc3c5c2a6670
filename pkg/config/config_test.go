package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caixa-pdv/pkg/config"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverPostgres, cfg.App.StoreDriver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.ReportCacheTTL)
	assert.True(t, cfg.Ledger.AllowNegativeStock)
	assert.False(t, cfg.Ledger.EnforcePaymentTotal)
	assert.True(t, cfg.Ledger.VerifyLineTotals)
}

func TestFromViper_Valores(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "Memory")
	v.Set("HTTP_PORT", "9090")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("REPORT_CACHE_TTL_SECONDS", "120")
	v.Set("LEDGER_ALLOW_NEGATIVE_STOCK", "false")
	v.Set("LEDGER_ENFORCE_PAYMENT_TOTAL", "true")
	v.Set("DB_AUTO_MIGRATE", "nao")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, config.StoreDriverMemory, cfg.App.StoreDriver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2*time.Minute, cfg.Redis.ReportCacheTTL)
	assert.False(t, cfg.Ledger.AllowNegativeStock)
	assert.True(t, cfg.Ledger.EnforcePaymentTotal)
	assert.True(t, cfg.DB.AutoMigrate, "un booleano ilegible conserva el default")
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "sqlite")
	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProduccionSinSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "caixa", Password: "p@ss/word", DBName: "pdv", SSLMode: "disable"}
	assert.Equal(t, "postgres://caixa:p%40ss%2Fword@db:5432/pdv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
