package config

import (
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var lock = &sync.Mutex{}
var configInstance *ConfigType

// Config returns a singleton instance of ConfigType, loading environment variables from a .env file if present.
func Config() *ConfigType {
	lock.Lock()
	defer lock.Unlock()
	if configInstance == nil {
		if _, err := os.Stat(".env"); !os.IsNotExist(err) {
			logrus.Info("found .env file")
			if err := godotenv.Load(); err != nil {
				logrus.WithError(err).Fatal("can not load .env file")
			}
		} else {
			logrus.Info("no .env file found")
		}
		cfg, err := Load()
		if err != nil {
			panic(err)
		}
		configInstance = cfg
		logrus.Infof("config loaded: bot=%s canvas=%s db=%s", cfg.BotConfig.Name, cfg.CanvasConfig.BaseURL, cfg.DBPath)
	}
	return configInstance
}

// Load parses the process environment without touching the singleton.
func Load() (*ConfigType, error) {
	cfg := &ConfigType{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	if cfg.CanvasConfig.PerPage <= 0 {
		return nil, errors.Errorf("CANVAS_PER_PAGE must be positive, got %d", cfg.CanvasConfig.PerPage)
	}
	return cfg, nil
}
