package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/internal/xdg"
)

const envPrefix = "CAMPUSDESK_"

// loadConfig layers the config file, CAMPUSDESK_* variables and flags over the
// defaults, in that order. A missing file at the default path is not an error.
func loadConfig(opts *globalOptions, lookup func(string) (string, bool)) (campusdesk.Config, error) {
	cfg := campusdesk.DefaultConfig()

	path := opts.configFile
	explicit := path != ""
	if !explicit {
		if p, err := xdg.ConfigFile(); err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg, lookup); err != nil {
		return cfg, err
	}
	opts.apply(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *campusdesk.Config, lookup func(string) (string, bool)) error {
	env := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		return v, ok && v != ""
	}
	duration := func(name string, dst *time.Duration) error {
		v, ok := env(name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
		return nil
	}

	if v, ok := env("API_URL"); ok {
		cfg.API.BaseURL = v
	}
	if err := duration("API_TIMEOUT", &cfg.API.Timeout); err != nil {
		return err
	}
	if v, ok := env("STORAGE"); ok {
		cfg.Storage.Backend = campusdesk.StorageBackend(v)
	}
	if v, ok := env("SESSION_FILE"); ok {
		cfg.Storage.Path = v
	}
	if v, ok := env("REDIS_ADDR"); ok {
		cfg.Storage.RedisAddr = v
	}
	if v, ok := env("REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sREDIS_DB: %w", envPrefix, err)
		}
		cfg.Storage.RedisDB = db
	}
	if v, ok := env("SIGNING_METHOD"); ok {
		cfg.Session.SigningMethod = v
	}
	if v, ok := env("VERIFY_KEY"); ok {
		cfg.Session.VerifyKey = []byte(v)
	}
	if v, ok := env("VERIFY_KEY_FILE"); ok {
		cfg.Session.VerifyKeyFile = v
	}
	if v, ok := env("TIMEZONE"); ok {
		cfg.Meals.Timezone = v
	}
	if err := duration("FEEDBACK_INTERVAL", &cfg.Polling.FeedbackInterval); err != nil {
		return err
	}
	if err := duration("STATS_INTERVAL", &cfg.Polling.StatsInterval); err != nil {
		return err
	}
	if v, ok := env("GATEWAY_ADDR"); ok {
		cfg.Gateway.Addr = v
	}
	return nil
}
