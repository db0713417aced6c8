package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // зона сервиса не должна зависеть от образа

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	BackendPostgres = "postgres"
	BackendWorkbook = "workbook"
	BackendMemory   = "memory"
)

type Package struct {
	Title string
	Days  int
	Price int
	URL   string
}

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
		PollTimeout int   `mapstructure:"poll_timeout"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Store struct {
		Backend        string
		WorkbookPath   string        `mapstructure:"workbook_path"`
		Attempts       uint64        `mapstructure:"attempts"`
		Backoff        time.Duration `mapstructure:"backoff"`
		AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
	} `mapstructure:"store"`

	Postgres struct {
		DSN     string
		Migrate bool
	} `mapstructure:"postgres"`

	Redis struct {
		Addr     string
		Password string
		DB       int
		DedupTTL time.Duration `mapstructure:"dedup_ttl"`
	} `mapstructure:"redis"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Quota struct {
		DailyCap int `mapstructure:"daily_cap"`
	} `mapstructure:"quota"`

	Payments struct {
		WebhookSecret  string             `mapstructure:"webhook_secret"`
		IdentityDomain string             `mapstructure:"identity_domain"`
		Packages       map[string]Package `mapstructure:"packages"`
	} `mapstructure:"payments"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Asia/Jakarta")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_chat_id", 0)
	v.SetDefault("telegram.poll_timeout", 30)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("store.backend", BackendPostgres)
	v.SetDefault("store.workbook_path", "data/cdrama_database.xlsx")
	v.SetDefault("store.attempts", 3)
	v.SetDefault("store.backoff", "200ms")
	v.SetDefault("store.attempt_timeout", "5s")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.migrate", true)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dedup_ttl", "720h")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("quota.daily_cap", 5)
	v.SetDefault("payments.webhook_secret", "")
	v.SetDefault("payments.identity_domain", "vipbot.com")
}

// Load читает YAML (path может быть пустым) и переопределения из окружения:
// APP_TELEGRAM_TOKEN, APP_PAYMENTS_WEBHOOK_SECRET и т.д. Файл .env подхватывается, если есть.
func Load(path string) (Config, error) {
	_ = gotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Telegram.Token) == "" {
		errs = append(errs, errors.New("telegram.token is required"))
	}
	if strings.TrimSpace(c.Payments.WebhookSecret) == "" {
		errs = append(errs, errors.New("payments.webhook_secret is required"))
	}
	if c.Quota.DailyCap <= 0 {
		errs = append(errs, fmt.Errorf("quota.daily_cap must be positive, got %d", c.Quota.DailyCap))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("app.timezone: %w", err))
	}
	switch c.Store.Backend {
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required for the postgres backend"))
		}
	case BackendWorkbook:
		if c.Store.WorkbookPath == "" {
			errs = append(errs, errors.New("store.workbook_path is required for the workbook backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}
	for id, p := range c.Payments.Packages {
		if p.Days <= 0 {
			errs = append(errs, fmt.Errorf("payments.packages.%s: days must be positive", id))
		}
	}
	return errors.Join(errs...)
}

func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}
