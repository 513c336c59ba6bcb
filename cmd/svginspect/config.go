package main

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	yaml "gopkg.in/yaml.v3"

	"github.com/benoitkugler/svgdom/svgdoc"
)

type (
	LoggerConfig struct {
		// one of none, normal, debug
		Level string `yaml:"level"`
	}

	RasterConfig struct {
		// zero values use the nominal size of the document
		Width  int `yaml:"width,omitempty"`
		Height int `yaml:"height,omitempty"`
	}

	Config struct {
		Mode    svgdoc.ParseMode `yaml:"mode"`
		Logging LoggerConfig     `yaml:"logging"`
		Raster  RasterConfig     `yaml:"raster"`
	}
)

func defaultConfig() *Config {
	return &Config{
		Mode:    svgdoc.StrictWarns,
		Logging: LoggerConfig{Level: "normal"},
	}
}

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	switch cfg.Logging.Level {
	case "none", "normal", "debug":
	default:
		return nil, fmt.Errorf("invalid logging level %q (expected none, normal or debug)", cfg.Logging.Level)
	}
	if cfg.Raster.Width < 0 || cfg.Raster.Height < 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", cfg.Raster.Width, cfg.Raster.Height)
	}
	return cfg, nil
}

// loadConfiguration reads the configuration from the file at the given path,
// on top of the default values. An empty path returns the defaults.
func loadConfiguration(path string) (*Config, error) {
	cfg := defaultConfig()
	if len(path) == 0 {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

func dumpConfiguration(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Prepare returns a console logger writing to stderr.
func (conf *LoggerConfig) Prepare() *zap.Logger {
	var level zapcore.Level
	switch conf.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "normal":
		level = zapcore.InfoLevel
	default:
		return zap.NewNop()
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.TimeKey = zapcore.OmitKey
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}
