package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/portfolio-backend/internal/engine"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, engine.DefaultRules(), cfg.Animation.Rules())
	assert.Equal(t, 40*time.Second, cfg.Orbit.Period)
	assert.Equal(t, -100.0, cfg.Visibility.Margin)
	assert.Equal(t, 2*time.Minute, cfg.Sections.IdleTimeout)
	assert.Equal(t, 500, cfg.Sections.Max)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.Development())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
env: development
animation:
  dwell_duration: 2s
  reveal_threshold: 0.8
`), 0o600))

	t.Setenv("PORTFOLIO_PORT", "9100")
	t.Setenv("PORTFOLIO_CHAT_KEY", "k")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port, "env beats file")
	assert.True(t, cfg.Development())
	assert.Equal(t, 2*time.Second, cfg.Animation.DwellDuration)
	assert.Equal(t, 0.8, cfg.Animation.RevealThreshold)
	assert.Equal(t, "k", cfg.Chat.Key)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORTFOLIO_ORBIT_PERIOD=10s\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("PORTFOLIO_ORBIT_PERIOD") })

	cfg, err := Load("", envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Orbit.Period)
}

func TestLoad_NestedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
orbit:
  period: 25s
visibility:
  margin: -40
sections:
  idle_timeout: 45s
  max: 12
admin:
  token_hash: "$2a$10$abc"
`), 0o600))
	t.Setenv("PORTFOLIO_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25*time.Second, cfg.Orbit.Period)
	assert.Equal(t, -40.0, cfg.Visibility.Margin)
	assert.Equal(t, 45*time.Second, cfg.Sections.IdleTimeout)
	assert.Equal(t, 12, cfg.Sections.Max)
	assert.Equal(t, "$2a$10$abc", cfg.Admin.TokenHash)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port", map[string]string{"PORTFOLIO_PORT": "0"}},
		{"driver", map[string]string{"PORTFOLIO_DATABASE_DRIVER": "oracle"}},
		{"tick", map[string]string{"PORTFOLIO_ANIMATION_TICK_INTERVAL": "0s"}},
		{"draw", map[string]string{"PORTFOLIO_ANIMATION_DRAW_DURATION": "0s"}},
		{"threshold", map[string]string{"PORTFOLIO_ANIMATION_REVEAL_THRESHOLD": "1.5"}},
		{"idle", map[string]string{"PORTFOLIO_SECTIONS_IDLE_TIMEOUT": "-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
