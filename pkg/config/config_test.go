package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Defaults(t *testing.T) {
	cfg, err := build(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 5*time.Second, cfg.Tx.LockTimeout)
	assert.Equal(t, 15*time.Second, cfg.Tx.StatementTimeout)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Empty(t, cfg.Audit.Schedule)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestBuild_DesdeVariablesDeEntorno(t *testing.T) {
	t.Setenv("TX_LOCK_TIMEOUT", "750ms")
	t.Setenv("TX_STATEMENT_TIMEOUT", "2000")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("STOCK_AUDIT_SCHEDULE", "0 3 * * *")
	t.Setenv("STOCK_AUDIT_AUTO_REPAIR", "true")
	t.Setenv("HTTP_PORT", "9090")

	v := viper.New()
	v.AutomaticEnv()
	cfg, err := build(v)
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.Tx.LockTimeout)
	assert.Equal(t, 2*time.Second, cfg.Tx.StatementTimeout)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "0 3 * * *", cfg.Audit.Schedule)
	assert.True(t, cfg.Audit.AutoRepair)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestBuild_DuracionInvalida(t *testing.T) {
	t.Setenv("TX_LOCK_TIMEOUT", "pronto")
	v := viper.New()
	v.AutomaticEnv()
	_, err := build(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "gestinvlab", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/gestinvlab?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
