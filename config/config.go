package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvRPCURL overrides rpc.url when set.
const EnvRPCURL = "KLIQ_RPC_URL"

type Config struct {
	RPC   RPCConfig     `yaml:"rpc"`
	Fetch FetchConfig   `yaml:"fetch"`
	Log   LoggingConfig `yaml:"log"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type RPCConfig struct {
	URL string `yaml:"url"`
}

type FetchConfig struct {
	// Delay is the minimum gap between two paged tick array requests.
	Delay    time.Duration `yaml:"delay"`
	MaxPages int           `yaml:"max_pages"`
	Metrics  bool          `yaml:"metrics"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML document and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, validate(&cfg)
}

// Default returns a config with every default applied.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// LoadEnv reads the given dotenv files (".env" when none are given) into the
// process environment and applies the overrides to cfg. Missing files are
// ignored.
func LoadEnv(cfg *Config, files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if url := strings.TrimSpace(os.Getenv(EnvRPCURL)); url != "" {
		cfg.RPC.URL = url
	}
	return validate(cfg)
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.RPC.URL == "" {
		cfg.RPC.URL = rpc.MainNetBeta_RPC
	}
	if cfg.Fetch.Delay == 0 {
		cfg.Fetch.Delay = 100 * time.Millisecond
	}
	if cfg.Fetch.MaxPages == 0 {
		cfg.Fetch.MaxPages = 32
	}
}

func validate(cfg *Config) error {
	if cfg.RPC.URL == "" {
		return errors.New("rpc.url is required")
	}
	if !strings.HasPrefix(cfg.RPC.URL, "http://") && !strings.HasPrefix(cfg.RPC.URL, "https://") {
		return errors.New("rpc.url must be an http(s) endpoint")
	}
	if cfg.Fetch.Delay < 0 {
		return errors.New("fetch.delay must be >= 0")
	}
	if cfg.Fetch.MaxPages < 0 {
		return errors.New("fetch.max_pages must be positive")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("log.level must be one of debug, info, warn, error")
	}
	return nil
}
