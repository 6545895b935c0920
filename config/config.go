// Package config loads the settings of the tb command.
//
// Settings come, by increasing priority, from defaults, the optional
// tradebook.yaml file of the config directory, and TRADEBOOK_* environment
// variables (a .env file in the config directory is loaded first).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/undo"
)

// FileName is the name of the config file in the config directory.
const FileName = "tradebook.yaml"

// Storage backends.
const (
	StorageJSONL  = "jsonl"
	StorageSQLite = "sqlite"
)

// Config holds all configuration for the application.
type Config struct {
	Book      string         `mapstructure:"book"`    // book file, or sqlite database
	Storage   string         `mapstructure:"storage"` // jsonl or sqlite
	Currency  string         `mapstructure:"currency"`
	Oversell  string         `mapstructure:"oversell"` // drop or report
	UndoDepth int            `mapstructure:"undo_depth"`
	Precision map[string]int `mapstructure:"precision"`
	Log       Log            `mapstructure:"log"`
	Server    Server         `mapstructure:"server"`
}

// Log holds the configuration for the logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Server holds the configuration for the HTTP view.
type Server struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	precision := make(map[string]int)
	for f, n := range tradebook.DefaultPrecision() {
		precision[string(f)] = n
	}
	return Config{
		Book:      "trades.jsonl",
		Storage:   StorageJSONL,
		Currency:  "USD",
		Oversell:  tradebook.OversellDrop.String(),
		UndoDepth: undo.DefaultDepth,
		Precision: precision,
		Log:       Log{Level: "warn", Format: "console"},
		Server:    Server{Addr: "localhost:8080"},
	}
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")

	// Allow environment variables to override config file
	v.SetEnvPrefix("TRADEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("book", def.Book)
	v.SetDefault("storage", def.Storage)
	v.SetDefault("currency", def.Currency)
	v.SetDefault("oversell", def.Oversell)
	v.SetDefault("undo_depth", def.UndoDepth)
	for f, n := range def.Precision {
		v.SetDefault("precision."+f, n)
	}
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("server.addr", def.Server.Addr)
	return v
}

// Load reads the configuration of dir. Neither the config file nor the .env
// file are required.
func Load(dir string) (cfg Config, err error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("could not load .env: %w", err)
	}

	v := newViper(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("could not read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("could not decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg to the config file of dir.
func Save(dir string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	v := viper.New()
	v.Set("book", cfg.Book)
	v.Set("storage", cfg.Storage)
	v.Set("currency", cfg.Currency)
	v.Set("oversell", cfg.Oversell)
	v.Set("undo_depth", cfg.UndoDepth)
	v.Set("precision", cfg.Precision)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("server.addr", cfg.Server.Addr)
	if err := v.WriteConfigAs(filepath.Join(dir, FileName)); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Book == "" {
		errs = append(errs, errors.New("book is required"))
	}
	if c.Storage != StorageJSONL && c.Storage != StorageSQLite {
		errs = append(errs, fmt.Errorf("unknown storage %q, want %q or %q", c.Storage, StorageJSONL, StorageSQLite))
	}
	if _, err := c.OversellPolicy(); err != nil {
		errs = append(errs, err)
	}
	if c.UndoDepth < 0 {
		errs = append(errs, fmt.Errorf("undo_depth must be positive, got %d", c.UndoDepth))
	}
	if _, err := c.PrecisionSettings(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// OversellPolicy returns the parsed oversell setting.
func (c Config) OversellPolicy() (tradebook.OversellPolicy, error) {
	return tradebook.ParseOversellPolicy(c.Oversell)
}

// PrecisionSettings returns the display precision, unset fields keeping
// their default.
func (c Config) PrecisionSettings() (tradebook.Precision, error) {
	p := tradebook.DefaultPrecision()
	for name, n := range c.Precision {
		f, err := tradebook.ParseField(name)
		if err != nil {
			return nil, err
		}
		if err := p.Set(f, n); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// BookPath resolves the book location against the config directory.
func (c Config) BookPath(dir string) string {
	if filepath.IsAbs(c.Book) {
		return c.Book
	}
	return filepath.Join(dir, c.Book)
}

// UndoPath is the sidecar file keeping the undo history of the book.
func (c Config) UndoPath(dir string) string {
	return c.BookPath(dir) + ".undo.json"
}
