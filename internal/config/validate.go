package config

import (
	"errors"
	"fmt"

	"github.com/piwi3910/PlateMap/internal/model"
	"github.com/piwi3910/PlateMap/internal/render"
)

const maxDPI = 1200

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePage(); err != nil {
		return err
	}
	if err := c.validatePlate(); err != nil {
		return err
	}
	if err := c.validatePalette(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePage() error {
	if _, err := render.PageSizeByName(c.Page.Size); err != nil {
		return fmt.Errorf("page.size: %w", err)
	}
	if c.Page.DPI <= 0 || c.Page.DPI > maxDPI {
		return fmt.Errorf("page.dpi must be between 1 and %d", maxDPI)
	}
	return nil
}

func (c *Config) validatePlate() error {
	if c.Plate.Rows < 1 || c.Plate.Rows > model.MaxRows {
		return fmt.Errorf("plate.rows must be between 1 and %d", model.MaxRows)
	}
	if c.Plate.Columns < 1 {
		return errors.New("plate.columns must be positive")
	}
	if _, err := model.ParseOrientation(c.Plate.Orientation); err != nil {
		return fmt.Errorf("plate.orientation: %w", err)
	}
	return nil
}

func (c *Config) validatePalette() error {
	for _, s := range c.Palette.Colors {
		if !model.Color(s).Valid() {
			return fmt.Errorf("palette.colors: unknown color %q", s)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
}
