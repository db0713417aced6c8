package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeFile(t, `
app:
  timezone: Asia/Jakarta
store:
  backend: workbook
  workbook_path: /tmp/members.xlsx
  backoff: 50ms
payments:
  packages:
    vip30hari:
      title: VIP 30 Hari
      days: 30
      price: 30000
      url: https://trakteer.id/link4
`)
	t.Setenv("APP_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("APP_PAYMENTS_WEBHOOK_SECRET", "s3cret")
	t.Setenv("APP_QUOTA_DAILY_CAP", "7")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", c.Telegram.Token)
	assert.Equal(t, "s3cret", c.Payments.WebhookSecret)
	assert.Equal(t, 7, c.Quota.DailyCap)
	assert.Equal(t, BackendWorkbook, c.Store.Backend)
	assert.Equal(t, uint64(3), c.Store.Attempts)
	assert.Equal(t, 50*time.Millisecond, c.Store.Backoff)
	assert.Equal(t, 5*time.Second, c.Store.AttemptTimeout)
	assert.Equal(t, "vipbot.com", c.Payments.IdentityDomain)
	require.Contains(t, c.Payments.Packages, "vip30hari")
	assert.Equal(t, 30, c.Payments.Packages["vip30hari"].Days)
	assert.Equal(t, "https://trakteer.id/link4", c.Payments.Packages["vip30hari"].URL)

	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestLoadValidation(t *testing.T) {
	path := writeFile(t, `
app:
  timezone: Mars/Olympus
store:
  backend: sheets
quota:
  daily_cap: 0
`)
	_, err := Load(path)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "telegram.token")
	assert.Contains(t, msg, "webhook_secret")
	assert.Contains(t, msg, "daily_cap")
	assert.Contains(t, msg, "app.timezone")
	assert.Contains(t, msg, `unknown store.backend "sheets"`)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
