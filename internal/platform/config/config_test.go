package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "vet-hospital", cfg.AppName)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ENV", "Production")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("DATABASE_URL", "postgres://localhost/vet")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "jwt", cfg.ResolvedAuthMode())
}

func TestValidate(t *testing.T) {
	base := Config{Env: "production", DatabaseURL: "postgres://x", JWTTTL: time.Hour}

	short := base
	short.JWTSecret = "short"
	require.Error(t, short.Validate())

	ok := base
	ok.JWTSecret = strings.Repeat("s", 32)
	require.NoError(t, ok.Validate())

	devInProd := ok
	devInProd.AuthMode = "dev"
	require.Error(t, devInProd.Validate())

	noDB := ok
	noDB.DatabaseURL = ""
	require.Error(t, noDB.Validate())

	dev := Config{Env: "development", JWTTTL: time.Hour}
	require.NoError(t, dev.Validate())
	assert.Equal(t, "dev", dev.ResolvedAuthMode())
}
