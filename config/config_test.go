package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bcdannyboy/orcgreeks/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TRADIER_KEY", "SLACK_APP_TOKEN", "SLACK_BOT_TOKEN", "ORCGREEKS_RISK_FREE_RATE"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0644))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRADIER_KEY", "secret")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Tradier.Token)
	assert.Equal(t, "https://api.tradier.com", cfg.Tradier.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Tradier.Timeout)
	assert.Equal(t, "SPY", cfg.Analysis.Symbol)
	assert.Equal(t, "SHY", cfg.Analysis.RateProxy)
	assert.Equal(t, []int{90, 180, 270}, cfg.Analysis.DTETargetsDays)
	assert.Equal(t, 5, cfg.Analysis.ClosestStrikes)
	assert.Nil(t, cfg.FixedRate())

	want, err := models.NewSkewParameters(0.2, -0.1, 0.05, 0.03, -0.2, 0.2, 0.5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, want, cfg.Skew)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, `
[tradier]
timeout = "5s"
max_dte = 400

[analysis]
symbol = "QQQ"
dividend_yield = 0.006
workers = 4

[skew]
vc = 0.3
dsm = 1.0

[log]
level = "debug"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Tradier.Timeout)
	assert.Equal(t, 400, cfg.Tradier.MaxDTE)
	assert.Equal(t, "QQQ", cfg.Analysis.Symbol)
	assert.Equal(t, 0.006, cfg.Analysis.DividendYield)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, 0.3, cfg.Skew.Vc)
	assert.Equal(t, 1.0, cfg.Skew.Dsm)
	assert.Equal(t, -0.1, cfg.Skew.Sc)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidSkew(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "[skew]\nuc = 1.5\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidSkewParameters)
}

func TestLoadRejectsBadWindow(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "[tradier]\nmin_dte = 90\nmax_dte = 30\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestRateOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORCGREEKS_RISK_FREE_RATE", "0.0425")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, cfg.FixedRate())
	assert.Equal(t, 0.0425, *cfg.FixedRate())

	t.Setenv("ORCGREEKS_RISK_FREE_RATE", "four percent")
	_, err = Load(t.TempDir())
	assert.Error(t, err)
}
