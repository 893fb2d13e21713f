// Package config loads PlateMap settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/piwi3910/PlateMap/internal/model"
	"github.com/piwi3910/PlateMap/internal/render"
)

// Page contains output page settings.
type Page struct {
	Size string  `toml:"size"` // "A4" or "Letter"
	DPI  float64 `toml:"dpi"`  // PNG resolution
}

// Plate contains the geometry used for new plates.
type Plate struct {
	Rows        int    `toml:"rows"`
	Columns     int    `toml:"columns"`
	Orientation string `toml:"orientation"`
}

// Palette lists the colors assigned to projects in order of appearance.
type Palette struct {
	Colors []string `toml:"colors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level string `toml:"level"`
}

// Config is the complete PlateMap configuration.
type Config struct {
	Page    Page    `toml:"page"`
	Plate   Plate   `toml:"plate"`
	Palette Palette `toml:"palette"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	colors := make([]string, len(model.Palette))
	for i, c := range model.Palette {
		colors[i] = string(c)
	}
	return Config{
		Page:    Page{Size: render.A4.Name, DPI: 150},
		Plate:   Plate{Rows: 8, Columns: 12, Orientation: "vertical"},
		Palette: Palette{Colors: colors},
		Logging: Logging{Level: "info"},
	}
}

// DefaultConfigDir returns ~/.platemap, or ./.platemap when the home
// directory is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".platemap")
}

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// Load reads the config at path over Default. An empty path means
// DefaultConfigPath. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath()
	}
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg Config) error {
	path, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// PageSize returns the configured page size. Validate guarantees it resolves.
func (c *Config) PageSize() render.PageSize {
	p, err := render.PageSizeByName(c.Page.Size)
	if err != nil {
		return render.A4
	}
	return p
}

// Orientation returns the fill direction for new plates.
func (c *Config) Orientation() model.Orientation {
	o, _ := model.ParseOrientation(c.Plate.Orientation)
	return o
}

// PaletteColors returns the project palette.
func (c *Config) PaletteColors() []model.Color {
	colors := make([]model.Color, len(c.Palette.Colors))
	for i, s := range c.Palette.Colors {
		colors[i] = model.Color(s)
	}
	return colors
}

func (c *Config) normalize() {
	c.Page.Size = strings.TrimSpace(c.Page.Size)
	c.Plate.Orientation = strings.ToLower(strings.TrimSpace(c.Plate.Orientation))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	colors := c.Palette.Colors[:0]
	for _, s := range c.Palette.Colors {
		if s = strings.TrimSpace(s); s != "" {
			colors = append(colors, s)
		}
	}
	c.Palette.Colors = colors
	if len(c.Palette.Colors) == 0 {
		c.Palette.Colors = Default().Palette.Colors
	}
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return filepath.Clean(path), nil
}
