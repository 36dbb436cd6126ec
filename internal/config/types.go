// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"fmake/internal/compiler"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// UIConfig holds terminal presentation settings.
	UIConfig struct {
		// ColorScheme selects the terminal color scheme ("auto", "dark", "light").
		ColorScheme ColorScheme `mapstructure:"color_scheme" toml:"color_scheme"`
		// Verbose enables debug-level build logging.
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
	}

	// Config is the application configuration. Every field has a default;
	// command-line flags override config file values.
	Config struct {
		// FortranCompiler is the default Fortran toolchain.
		FortranCompiler compiler.FortranCompiler `mapstructure:"fortran_compiler" toml:"fortran_compiler"`
		// CCompiler is the default C/C++ toolchain.
		CCompiler compiler.CCompiler `mapstructure:"c_compiler" toml:"c_compiler"`
		// Arch is the default ifort target architecture.
		Arch compiler.Arch `mapstructure:"arch" toml:"arch"`
		// UI holds terminal presentation settings.
		UI UIConfig `mapstructure:"ui" toml:"ui"`
	}

	// InvalidConfigError is returned when configuration validation fails.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		Cause error
	}
)

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (must be %q, %q or %q)",
		e.Value, ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight)
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate checks that the ColorScheme is one of the recognized values.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", e.Cause)
}

// Unwrap returns the sentinel error for errors.Is() checks.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks every field against its recognized values.
func (c *Config) Validate() error {
	if err := c.FortranCompiler.Validate(); err != nil {
		return &InvalidConfigError{Cause: err}
	}
	if err := c.CCompiler.Validate(); err != nil {
		return &InvalidConfigError{Cause: err}
	}
	if err := c.Arch.Validate(); err != nil {
		return &InvalidConfigError{Cause: err}
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		return &InvalidConfigError{Cause: err}
	}
	return nil
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		FortranCompiler: compiler.FortranGNU,
		CCompiler:       compiler.CGcc,
		Arch:            compiler.ArchIntel64,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
