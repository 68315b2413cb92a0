package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ProviderConfig holds credentials for the real-number provider. An empty
// APIKey disables the real path entirely; it never fails startup.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type SynthConfig struct {
	Interval time.Duration
	Batch    int
	Rate     float64
	Burst    int
}

type JobsConfig struct {
	StatsSpec   string
	RetireSpec  string
	RetireAfter time.Duration
}

type AppConfig struct {
	Environment  string
	DataDir      string
	AdminID      string
	DefaultQuota int
	HTTP         HTTPConfig
	Provider     ProviderConfig
	Synth        SynthConfig
	Jobs         JobsConfig
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("NUMSIM")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.StringToTimeDurationHookFunc()
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DefaultQuota <= 0 {
		return nil, fmt.Errorf("defaultquota must be positive, got %d", cfg.DefaultQuota)
	}
	if cfg.Synth.Interval <= 0 {
		return nil, fmt.Errorf("synth.interval must be positive, got %s", cfg.Synth.Interval)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("datadir", "data")

	v.SetDefault("adminid", "6334711569")
	v.SetDefault("defaultquota", 5)

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "5s")
	v.SetDefault("http.writetimeout", "10s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("provider.baseurl", "https://api.sms-activate.org/stubs/handler_api.php")
	v.SetDefault("provider.timeout", "8s")

	v.SetDefault("synth.interval", "25s")
	v.SetDefault("synth.batch", 3)
	v.SetDefault("synth.rate", 5.0)
	v.SetDefault("synth.burst", 10)

	v.SetDefault("jobs.statsspec", "0 */10 * * * *")
	v.SetDefault("jobs.retirespec", "0 0 3 * * *")
	v.SetDefault("jobs.retireafter", "720h") // real leases go stale after 30 days
}
