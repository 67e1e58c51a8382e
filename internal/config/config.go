package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreMongo = "mongo"
	StoreFile  = "file"
)

type Config struct {
	Store          string        `env:"MOVIES_STORE" env-default:"mongo" yaml:"store" toml:"store" json:"store" edn:"store"`
	MongoURI       string        `env:"MOVIES_MONGO_URI" env-default:"mongodb://localhost:27017/uppgift1" yaml:"mongo_uri" toml:"mongo_uri" json:"mongo_uri" edn:"mongo-uri"`
	Database       string        `env:"MOVIES_DATABASE" env-default:"uppgift1" yaml:"database" toml:"database" json:"database" edn:"database"`
	Collection     string        `env:"MOVIES_COLLECTION" env-default:"movies" yaml:"collection" toml:"collection" json:"collection" edn:"collection"`
	DataDir        string        `env:"MOVIES_DATA_DIR" env-default:"data" yaml:"data_dir" toml:"data_dir" json:"data_dir" edn:"data-dir"`
	ConnectTimeout time.Duration `env:"MOVIES_CONNECT_TIMEOUT" env-default:"10s" yaml:"connect_timeout" toml:"connect_timeout" json:"connect_timeout" edn:"connect-timeout"`
	OpTimeout      time.Duration `env:"MOVIES_OP_TIMEOUT" env-default:"30s" yaml:"op_timeout" toml:"op_timeout" json:"op_timeout" edn:"op-timeout"`
	LogLevel       string        `env:"MOVIES_LOG_LEVEL" env-default:"info" yaml:"log_level" toml:"log_level" json:"log_level" edn:"log-level"`
}

// Load читает конфиг из файла (или .env) и переменных окружения
// если path пустой, а .env нет, берем только окружение
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(".env", &cfg); err != nil {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	}

	return &cfg, nil
}

// Validate проверяет что конфиг пригоден для запуска
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("mongo uri is empty")
		}
		if c.Database == "" {
			return errors.New("database name is empty")
		}
	case StoreFile:
		if c.DataDir == "" {
			return errors.New("data dir is empty")
		}
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreMongo, StoreFile)
	}

	if c.Collection == "" {
		return errors.New("collection name is empty")
	}
	if c.ConnectTimeout <= 0 || c.OpTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}

	return nil
}
