package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Sessions   SessionConfig    `mapstructure:"sessions"`
	Client     ClientConfig     `mapstructure:"client"`
}

type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// Catalog source is either "file" (JSON or YAML at Path) or "postgres".
type CatalogConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

type ExtractionConfig struct {
	SkipLayers     []string `mapstructure:"skip_layers"`
	PortsPerModule int      `mapstructure:"ports_per_module"`
	InputPin       int      `mapstructure:"input_pin"`
	OutputPin      int      `mapstructure:"output_pin"`
	Splitter       string   `mapstructure:"splitter"`
}

type SessionConfig struct {
	MaxSessions int `mapstructure:"max_sessions"`
}

type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", 5000)
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.max_upload_bytes", 64<<20)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "openpanelio")
	v.SetDefault("database.user", "openpanelio")
	v.SetDefault("database.max_connections", 4)

	v.SetDefault("catalog.source", CatalogSourceFile)
	v.SetDefault("catalog.path", "configs/component_db.json")

	v.SetDefault("extraction.skip_layers", []string{"0_SA-Comp_ICE"})
	v.SetDefault("extraction.ports_per_module", 8)
	v.SetDefault("extraction.input_pin", 2)
	v.SetDefault("extraction.output_pin", 4)
	v.SetDefault("extraction.splitter", "No")

	v.SetDefault("sessions.max_sessions", 16)

	v.SetDefault("client.base_url", "http://localhost:5000")
	v.SetDefault("client.timeout", "5s")
}

// Load reads path (YAML) on top of the defaults. An empty path yields the
// defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// OPIO_SERVER_HTTP_PORT etc.
	v.SetEnvPrefix("OPIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case CatalogSourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("invalid config: catalog.path is required for source %q", c.Catalog.Source)
		}
	case CatalogSourcePostgres:
	default:
		return fmt.Errorf("invalid config: unknown catalog.source %q", c.Catalog.Source)
	}

	if c.Extraction.PortsPerModule <= 0 {
		return fmt.Errorf("invalid config: extraction.ports_per_module must be positive")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}
