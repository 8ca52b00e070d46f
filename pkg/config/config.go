package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutDir  = "./Entity"
	DefaultPort    = 3306
	DefaultCharset = "utf8mb4"

	LangPHP = "php"
	LangGo  = "go"
)

// Config holds the connection parameters and generator options of a run.
type Config struct {
	Host     string `yaml:"-"`
	Database string `yaml:"-"`
	User     string `yaml:"-"`
	Password string `yaml:"-"`

	Port                int    `yaml:"port"`
	Charset             string `yaml:"charset"`
	OutDir              string `yaml:"output_dir"`
	Lang                string `yaml:"lang"`
	Namespace           string `yaml:"namespace"`
	RepositoryNamespace string `yaml:"repository_namespace"`
	Collections         bool   `yaml:"collections"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Port:    DefaultPort,
		Charset: DefaultCharset,
		OutDir:  DefaultOutDir,
		Lang:    LangPHP,
	}
}

// LoadFile overlays the options of a YAML file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadEnv reads envFile (".env" when empty) into the process environment
// and overlays the ENTITYGEN_* variables. A missing default .env is fine.
func (c *Config) LoadEnv(envFile string) error {
	if envFile == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	if v := os.Getenv("ENTITYGEN_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ENTITYGEN_PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("ENTITYGEN_CHARSET"); v != "" {
		c.Charset = v
	}
	if v := os.Getenv("ENTITYGEN_LANG"); v != "" {
		c.Lang = v
	}
	if v := os.Getenv("ENTITYGEN_NAMESPACE"); v != "" {
		c.Namespace = v
	}
	if v := os.Getenv("ENTITYGEN_COLLECTIONS"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ENTITYGEN_COLLECTIONS: %w", err)
		}
		c.Collections = on
	}
	return nil
}

// ApplyArgs sets the positional arguments: host dbName username password [outputDir].
func (c *Config) ApplyArgs(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("expected at least 4 arguments, got %d", len(args))
	}
	c.Host, c.Database, c.User, c.Password = args[0], args[1], args[2], args[3]
	if len(args) > 4 && args[4] != "" {
		c.OutDir = args[4]
	}
	return nil
}

// Validate checks the options that have a closed set of values.
func (c *Config) Validate() error {
	switch c.Lang {
	case LangPHP, LangGo:
	default:
		return fmt.Errorf("unknown lang %q (want %s or %s)", c.Lang, LangPHP, LangGo)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// DSN formats the MySQL data source name. A host that already carries a
// port is used as is.
func (c *Config) DSN() string {
	addr := c.Host
	if _, _, err := net.SplitHostPort(c.Host); err != nil {
		addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	m := mysql.NewConfig()
	m.User = c.User
	m.Passwd = c.Password
	m.Net = "tcp"
	m.Addr = addr
	m.DBName = c.Database
	m.ParseTime = true
	if c.Charset != "" {
		m.Params = map[string]string{"charset": c.Charset}
	}
	return m.FormatDSN()
}
