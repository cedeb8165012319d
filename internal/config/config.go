// Package config reads the server's settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/coffee-image/internal/converter"
	"github.com/ironsheep/coffee-image/internal/imaging"
)

// Environment variables understood by Load.
const (
	EnvResultDir     = "COFFEE_IMAGE_RESULT_DIR"
	EnvFormat        = "COFFEE_IMAGE_FORMAT"
	EnvMaskCutoff    = "COFFEE_IMAGE_MASK_CUTOFF"
	EnvTextArtScale  = "COFFEE_IMAGE_TEXTART_SCALE"
	EnvLogLevel      = "COFFEE_IMAGE_LOG_LEVEL"
	EnvKeepArtifacts = "COFFEE_IMAGE_KEEP_ARTIFACTS"
)

// DefaultResultDirName is the result directory created under the working
// directory when EnvResultDir is unset.
const DefaultResultDirName = ".resultImages"

// Config holds the server settings.
type Config struct {
	ResultDir     string
	Format        imaging.Format
	MaskCutoff    uint8
	TextArtScale  int
	Debug         bool
	KeepArtifacts bool
}

// Options returns the converter options the settings describe.
func (c *Config) Options() converter.Options {
	return converter.Options{
		Format:       c.Format,
		Cutoff:       c.MaskCutoff,
		TextArtScale: c.TextArtScale,
	}
}

// Load reads the settings from the process environment.
func Load() (*Config, error) {
	return FromEnv(os.Getenv)
}

// FromEnv reads the settings through getenv. Unset variables take their
// defaults; invalid values are reported with the variable's name.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Format:       imaging.PNG,
		MaskCutoff:   imaging.DefaultCutoff,
		TextArtScale: converter.DefaultTextArtScale,
	}

	cfg.ResultDir = getenv(EnvResultDir)
	if cfg.ResultDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg.ResultDir = filepath.Join(wd, DefaultResultDirName)
	}

	if v := getenv(EnvFormat); v != "" {
		f, err := imaging.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvFormat, err)
		}
		cfg.Format = f
	}

	if v := strings.TrimSpace(getenv(EnvMaskCutoff)); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%s: must be an integer between 0 and 255: %w", EnvMaskCutoff, err)
		}
		cfg.MaskCutoff = uint8(n)
	}

	if v := strings.TrimSpace(getenv(EnvTextArtScale)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s: must be a positive integer, got %q", EnvTextArtScale, v)
		}
		cfg.TextArtScale = n
	}

	cfg.Debug = strings.EqualFold(getenv(EnvLogLevel), "debug")

	if v := strings.TrimSpace(getenv(EnvKeepArtifacts)); v != "" {
		keep, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvKeepArtifacts, err)
		}
		cfg.KeepArtifacts = keep
	}

	return cfg, nil
}
