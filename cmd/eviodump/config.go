package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/format"
)

// Output formats.
const (
	formatText = "text"
	formatCBOR = "cbor"
)

// Byte order choices for --rewrite.
const (
	orderSame   = "same"
	orderSwap   = "swap"
	orderBig    = "big"
	orderLittle = "little"
)

// Config holds every eviodump setting. Values come from the YAML file named
// by --config and are then overridden by flags given on the command line.
type Config struct {
	Format      string `yaml:"format"`
	Output      string `yaml:"output"`
	Dictionary  string `yaml:"dictionary"`
	Name        string `yaml:"name"`
	Tag         int    `yaml:"tag"`
	Num         int    `yaml:"num"`
	MaxEvents   int    `yaml:"max_events"`
	Digest      bool   `yaml:"digest"`
	Rewrite     string `yaml:"rewrite"`
	ByteOrder   string `yaml:"byte_order"`
	Compression string `yaml:"compression"`
	LogLevel    string `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		Format:      formatText,
		Tag:         -1,
		Num:         -1,
		ByteOrder:   orderSame,
		Compression: "none",
		LogLevel:    "warn",
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

func addFlags(fs *pflag.FlagSet, cfg *Config) *string {
	configPath := fs.String("config", "", "YAML config file; flags override its values")
	fs.StringVarP(&cfg.Format, "format", "f", cfg.Format, "output format: text or cbor")
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "write the dump to this file instead of stdout")
	fs.StringVarP(&cfg.Dictionary, "dict", "d", cfg.Dictionary, "XML or YAML dictionary; overrides the file's own dictionary")
	fs.StringVar(&cfg.Name, "name", cfg.Name, "only show structures with this dictionary name")
	fs.IntVar(&cfg.Tag, "tag", cfg.Tag, "only show structures with this tag")
	fs.IntVar(&cfg.Num, "num", cfg.Num, "only show structures with this num (requires --tag)")
	fs.IntVarP(&cfg.MaxEvents, "max-events", "n", cfg.MaxEvents, "stop after this many events (0 means all)")
	fs.BoolVar(&cfg.Digest, "digest", cfg.Digest, "print an xxHash64 digest of every event")
	fs.StringVar(&cfg.Rewrite, "rewrite", cfg.Rewrite, "write the events to a new evio file")
	fs.StringVar(&cfg.ByteOrder, "byte-order", cfg.ByteOrder, "byte order for --rewrite: same, swap, big or little")
	fs.StringVar(&cfg.Compression, "compression", cfg.Compression, "block compression for --rewrite: none, zstd, s2 or lz4")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	return configPath
}

// mergeFlags copies every flag set on the command line from flagged into cfg.
func mergeFlags(fs *pflag.FlagSet, cfg *Config, flagged Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = flagged.Format
		case "output":
			cfg.Output = flagged.Output
		case "dict":
			cfg.Dictionary = flagged.Dictionary
		case "name":
			cfg.Name = flagged.Name
		case "tag":
			cfg.Tag = flagged.Tag
		case "num":
			cfg.Num = flagged.Num
		case "max-events":
			cfg.MaxEvents = flagged.MaxEvents
		case "digest":
			cfg.Digest = flagged.Digest
		case "rewrite":
			cfg.Rewrite = flagged.Rewrite
		case "byte-order":
			cfg.ByteOrder = flagged.ByteOrder
		case "compression":
			cfg.Compression = flagged.Compression
		case "log-level":
			cfg.LogLevel = flagged.LogLevel
		}
	})
}

// Validate checks the settings that flags and YAML cannot constrain.
func (c *Config) Validate() error {
	switch c.Format {
	case formatText, formatCBOR:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}

	if c.Num >= 0 && c.Tag < 0 {
		return fmt.Errorf("--num requires --tag")
	}

	if c.Tag > 0xffff || c.Num > 0xff {
		return fmt.Errorf("tag %d or num %d out of range", c.Tag, c.Num)
	}

	if c.Name != "" && c.Tag >= 0 {
		return fmt.Errorf("--name and --tag are exclusive")
	}

	if c.MaxEvents < 0 {
		return fmt.Errorf("max events must not be negative")
	}

	if _, ok := format.ParseCompressionType(c.Compression); !ok {
		return fmt.Errorf("unknown compression %q", c.Compression)
	}

	switch c.ByteOrder {
	case orderSame, orderSwap, orderBig, orderLittle:
	default:
		return fmt.Errorf("unknown byte order %q", c.ByteOrder)
	}

	if _, err := c.level(); err != nil {
		return err
	}

	return nil
}

func (c *Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return lvl, fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	return lvl, nil
}

// rewriteOrder resolves ByteOrder against the byte order of the input.
func (c *Config) rewriteOrder(input endian.EndianEngine) endian.EndianEngine {
	switch c.ByteOrder {
	case orderSwap:
		return endian.Opposite(input)
	case orderBig:
		return endian.GetBigEndianEngine()
	case orderLittle:
		return endian.GetLittleEndianEngine()
	default:
		return input
	}
}
