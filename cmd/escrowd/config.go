package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/escrowd/errors"
)

// Config is the full service configuration. Values are read from the
// TOML file first, environment variables override.
type Config struct {
	// ListenAddr is the address the HTTP API binds to.
	ListenAddr string `toml:"listen_addr"`
	// DBPath is the directory holding the LevelDB files.
	DBPath string `toml:"db_path"`
	// LogLevel is one of the zerolog level names, eg. "info".
	LogLevel string `toml:"log_level"`
	// AddressHRP is the human readable prefix of bech32 encoded
	// addresses accepted by the API.
	AddressHRP string `toml:"address_hrp"`
	// GenesisAccounts are funded once, on the first boot against an
	// empty database.
	GenesisAccounts []GenesisAccount `toml:"genesis_account"`
}

// GenesisAccount seeds one wallet at first boot.
type GenesisAccount struct {
	Address string `toml:"address"`
	Balance int64  `toml:"balance"`
}

// LoadConfig assembles the configuration from defaults, an optional
// TOML file and the environment. A .env file in the working directory
// is folded into the environment first.
func LoadConfig(path string) (Config, error) {
	// missing .env is fine, it is a development convenience
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr: ":8000",
		DBPath:     "./escrowd.db",
		LogLevel:   "info",
		AddressHRP: "offer",
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, errors.Wrapf(errors.ErrInput, "config file %s: %s", path, err)
		}
	}

	if v := os.Getenv("ESCROWD_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("ESCROWD_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ESCROWD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ESCROWD_ADDRESS_HRP"); v != "" {
		cfg.AddressHRP = v
	}

	if cfg.ListenAddr == "" {
		return cfg, errors.Wrap(errors.ErrEmpty, "listen address")
	}
	if cfg.DBPath == "" {
		return cfg, errors.Wrap(errors.ErrEmpty, "db path")
	}
	return cfg, nil
}
