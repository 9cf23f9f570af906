package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rebelice/opsgrid/internal/models"
)

// AppName names the config directory and log file
const AppName = "opsgrid"

// Config holds all application configuration
type Config struct {
	General  GeneralConfig       `mapstructure:"general"`
	UI       UIConfig            `mapstructure:"ui"`
	Data     DataConfig          `mapstructure:"data"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Table    TableConfig         `mapstructure:"table"`
	Brands   map[string][]string `mapstructure:"brands"`
	Presets  PresetsConfig       `mapstructure:"presets"`
	History  HistoryConfig       `mapstructure:"history"`
	Log      LogConfig           `mapstructure:"log"`
}

type GeneralConfig struct {
	Account        string `mapstructure:"account"`
	DefaultAccount string `mapstructure:"default_account"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
}

type DataConfig struct {
	Source          string        `mapstructure:"source"` // file or postgres
	Path            string        `mapstructure:"path"`
	Query           string        `mapstructure:"query"`
	FreezeSortOrder bool          `mapstructure:"freeze_sort_order"`
	LoadTimeout     time.Duration `mapstructure:"load_timeout"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type TableConfig struct {
	Name     string         `mapstructure:"name"`
	IDColumn string         `mapstructure:"id_column"`
	Columns  []ColumnConfig `mapstructure:"columns"`
}

type ColumnConfig struct {
	Key        string `mapstructure:"key"`
	Label      string `mapstructure:"label"`
	Kind       string `mapstructure:"kind"`
	Searchable bool   `mapstructure:"searchable"`
	Brand      bool   `mapstructure:"brand"`
}

type PresetsConfig struct {
	Path string `mapstructure:"path"`
}

type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Path         string `mapstructure:"path"`
	PopularLimit int    `mapstructure:"popular_limit"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		General: GeneralConfig{
			DefaultAccount: "default",
		},
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
		},
		Data: DataConfig{
			Source:      "file",
			Path:        "rows.csv",
			LoadTimeout: 30 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "prefer",
		},
		Table: TableConfig{
			Name:     "rows",
			IDColumn: "id",
		},
		History: HistoryConfig{
			Enabled:      true,
			PopularLimit: 5,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Flags declares the command line flags that override config keys
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	fs.String("config", "", "path to a config file")
	fs.String("data", "", "row file to load (overrides data.path)")
	fs.String("account", "", "account whose brands are offered")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	return fs
}

// Loader reads configuration and can watch it for changes
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader. flags may be nil; otherwise it must be parsed.
func NewLoader(flags *pflag.FlagSet) (*Loader, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Explicit path wins over the search paths
	if flags != nil {
		if path, _ := flags.GetString("config"); path != "" {
			v.SetConfigFile(path)
		}
	}

	if dir, err := GetConfigPath(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		binds := map[string]string{
			"data.path":       "data",
			"general.account": "account",
			"log.level":       "log-level",
		}
		for key, name := range binds {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	return &Loader{v: v}, nil
}

// Load loads configuration from the default search paths
func Load() (*Config, error) {
	l, err := NewLoader(nil)
	if err != nil {
		return nil, err
	}
	return l.Config()
}

// Config unmarshals the current configuration
func (l *Loader) Config() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.General.Account == "" {
		cfg.General.Account = cfg.General.DefaultAccount
	}
	return &cfg, nil
}

// File returns the config file in use, or "" when running on defaults
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// Watch calls onChange with the reloaded configuration whenever the config
// file changes. Reload errors are passed through instead.
func (l *Loader) Watch(onChange func(*Config, error)) {
	if l.File() == "" {
		return
	}
	l.v.OnConfigChange(func(_ fsnotify.Event) {
		onChange(l.Config())
	})
	l.v.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("general.account", d.General.Account)
	v.SetDefault("general.default_account", d.General.DefaultAccount)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("data.source", d.Data.Source)
	v.SetDefault("data.path", d.Data.Path)
	v.SetDefault("data.query", d.Data.Query)
	v.SetDefault("data.freeze_sort_order", d.Data.FreezeSortOrder)
	v.SetDefault("data.load_timeout", d.Data.LoadTimeout)
	v.SetDefault("postgres.host", d.Postgres.Host)
	v.SetDefault("postgres.port", d.Postgres.Port)
	v.SetDefault("postgres.database", d.Postgres.Database)
	v.SetDefault("postgres.user", d.Postgres.User)
	v.SetDefault("postgres.password", d.Postgres.Password)
	v.SetDefault("postgres.ssl_mode", d.Postgres.SSLMode)
	v.SetDefault("table.name", d.Table.Name)
	v.SetDefault("table.id_column", d.Table.IDColumn)
	v.SetDefault("presets.path", d.Presets.Path)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("history.popular_limit", d.History.PopularLimit)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
}

// Schema converts the table section into the engine's column declaration.
// Columns is empty when none are declared; the caller infers them from rows.
func (c *Config) Schema() models.TableSchema {
	s := models.TableSchema{
		Name:     c.Table.Name,
		IDColumn: c.Table.IDColumn,
	}
	for _, col := range c.Table.Columns {
		s.Columns = append(s.Columns, models.ColumnMeta{
			Key:        col.Key,
			Label:      col.Label,
			Kind:       models.ParseColumnKind(col.Kind),
			Searchable: col.Searchable,
			BrandAware: col.Brand,
		})
	}
	return s
}

// ConnectionConfig returns the postgres section as a connection config
func (c *Config) ConnectionConfig() models.ConnectionConfig {
	return models.ConnectionConfig{
		Host:     c.Postgres.Host,
		Port:     c.Postgres.Port,
		Database: c.Postgres.Database,
		User:     c.Postgres.User,
		Password: c.Postgres.Password,
		SSLMode:  c.Postgres.SSLMode,
	}
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// DataPath resolves p against the config directory when it is relative and
// not empty. An empty p yields the default file name inside the config dir.
func DataPath(p, fallback string) string {
	if p == "" {
		p = fallback
	}
	if filepath.IsAbs(p) {
		return p
	}
	dir, err := GetConfigPath()
	if err != nil {
		return p
	}
	return filepath.Join(dir, p)
}

