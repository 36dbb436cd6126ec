// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as the file format.
//
// Configuration is loaded from ~/.config/fmake/config.toml (or XDG equivalent on Linux,
// ~/Library/Application Support/fmake/config.toml on macOS, %APPDATA%\fmake\config.toml
// on Windows), falling back to a config.toml in the current directory. Values configure
// the default toolchain selection (Fortran compiler, C compiler, ifort architecture)
// and UI settings; command-line flags override everything here.
package config
