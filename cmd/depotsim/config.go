package main

import (
	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Config is read from the environment; unset variables keep their defaults.
type Config struct {
	Entities  int    `config:"DEPOT_ENTITIES"`
	Ticks     int    `config:"DEPOT_TICKS"`
	Lifetime  int    `config:"DEPOT_LIFETIME"`
	Named     int    `config:"DEPOT_NAMED"`
	Seed      int64  `config:"DEPOT_SEED"`
	PrettyLog bool   `config:"DEPOT_PRETTY_LOG"`
	LogLevel  string `config:"DEPOT_LOG_LEVEL"`
	Profile   string `config:"DEPOT_PROFILE"`
}

func defaultConfig() Config {
	return Config{
		Entities: 10000,
		Ticks:    600,
		Lifetime: 120,
		Named:    8,
		Seed:     1,
		LogLevel: "info",
	}
}

func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if err := jlconfig.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "loading config from env")
	}
	if cfg.Entities <= 0 || cfg.Ticks < 0 || cfg.Lifetime <= 0 {
		return cfg, eris.Errorf("invalid config: entities=%d ticks=%d lifetime=%d", cfg.Entities, cfg.Ticks, cfg.Lifetime)
	}
	if cfg.Named > cfg.Entities {
		cfg.Named = cfg.Entities
	}
	switch cfg.Profile {
	case "", "cpu", "mem":
	default:
		return cfg, eris.Errorf("unknown profile mode %q", cfg.Profile)
	}
	return cfg, nil
}
