// Package config loads the service configuration and watches the
// error-model data directory for live reloads.
package config

import (
	"github.com/spf13/viper"

	"github.com/az-ai-labs/spellgraph/internal/errs"
)

// Language configures one language's correction resources.
type Language struct {
	Lang        string `mapstructure:"lang"`
	StoreDir    string `mapstructure:"store_dir"`
	ReplacePath string `mapstructure:"replace_path"`
	AroundPath  string `mapstructure:"around_path"`
	Alphabet    string `mapstructure:"alphabet"` // permitted letters; empty = unrestricted
	SeedStems   bool   `mapstructure:"seed_stems"`
}

// Ingest configures corpus ingestion defaults.
type Ingest struct {
	Workers  int   `mapstructure:"workers"`
	Boundary int64 `mapstructure:"boundary"`
}

// Config is the full service configuration.
type Config struct {
	ListenAddr            string     `mapstructure:"listen_addr"`
	DetectorPath          string     `mapstructure:"detector_path"`
	ProfileSize           int        `mapstructure:"profile_size"`
	SyncMetadataTimeoutMS int        `mapstructure:"sync_metadata_timeout_ms"`
	LogLevel              string     `mapstructure:"log_level"`
	LogFormat             string     `mapstructure:"log_format"` // "text" or "json"
	Ingest                Ingest     `mapstructure:"ingest"`
	Languages             []Language `mapstructure:"languages"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("profile_size", 3000)
	v.SetDefault("sync_metadata_timeout_ms", 60000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("ingest.workers", 4)
	v.SetDefault("ingest.boundary", 100)
}

// Load reads the configuration file at path. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SPELLGRAPH")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errs.Wrap(errs.InvalidArgument, 0, err, "config: read %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, 0, err, "config: unmarshal %s", path)
	}

	for i, lang := range cfg.Languages {
		if lang.Lang == "" {
			return nil, errs.New(errs.InvalidArgument, 0, "config: languages[%d]: empty lang tag", i)
		}
		if lang.StoreDir == "" {
			return nil, errs.New(errs.InvalidArgument, 0, "config: languages[%d] (%s): empty store_dir", i, lang.Lang)
		}
	}
	return &cfg, nil
}
