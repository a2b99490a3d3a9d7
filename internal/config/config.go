// internal/config/config.go
package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Source struct {
		ListURL        string  `yaml:"list_url"`
		DetailBase     string  `yaml:"detail_base"`
		DetailPrefix   string  `yaml:"detail_prefix"`
		UserAgent      string  `yaml:"user_agent"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		MaxRPS         float64 `yaml:"max_rps"` // 0 = no ceiling beyond run.delay_ms
	} `yaml:"source"`

	Run struct {
		Pages           int    `yaml:"pages"`
		MaxDetails      int    `yaml:"max_details"`
		DelayMS         int    `yaml:"delay_ms"`
		OutputPath      string `yaml:"output_path"`
		DataDir         string `yaml:"data_dir"` // enables the sqlite snapshot when set
		MetricsFile     string `yaml:"metrics_file"`
		IntervalMinutes int    `yaml:"interval_minutes"`
	} `yaml:"run"`

	Record struct {
		SourceSystem      string `yaml:"source_system"`
		JurisdictionLevel string `yaml:"jurisdiction_level"`
		JurisdictionState string `yaml:"jurisdiction_state"`
	} `yaml:"record"`

	Sink struct {
		URL            string `yaml:"url"`
		Key            string `yaml:"key,omitempty"`
		KeyringAccount string `yaml:"keyring_account"`
		Table          string `yaml:"table"`
		OnConflict     string `yaml:"on_conflict"`
		PostgresDSN    string `yaml:"postgres_dsn,omitempty"`
	} `yaml:"sink"`
}

func Default() Config {
	var c Config
	c.Source.ListURL = "https://www.txsmartbuy.com/esbd"
	c.Source.DetailBase = "https://www.txsmartbuy.gov"
	c.Source.DetailPrefix = "/esbd/"
	c.Source.UserAgent = "Mozilla/5.0 (compatible; BidPulsarBot/1.0)"
	c.Source.TimeoutSeconds = 30

	c.Run.Pages = 2
	c.Run.MaxDetails = 10
	c.Run.DelayMS = 350
	c.Run.OutputPath = "tx_esbd_preview.json"

	c.Record.SourceSystem = "state_tx_esbd"
	c.Record.JurisdictionLevel = "state"
	c.Record.JurisdictionState = "TX"

	c.Sink.OnConflict = "external_id,source_system"
	return c
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) Delay() time.Duration {
	return time.Duration(c.Run.DelayMS) * time.Millisecond
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.Source.TimeoutSeconds) * time.Second
}

func (c Config) Interval() time.Duration {
	return time.Duration(c.Run.IntervalMinutes) * time.Minute
}

// RESTSinkEnabled reports whether url, key and table are all set.
func (c Config) RESTSinkEnabled() bool {
	return c.Sink.URL != "" && c.Sink.Key != "" && c.Sink.Table != ""
}
