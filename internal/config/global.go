// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride redirects ConfigDir for tests. Pointing HOME at a
// temp directory is not enough: os.UserHomeDir ignores the environment
// on some platforms, so the override has to sit above it.
var configDirOverride string

// Reset clears the config directory override. Call from test cleanup.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride routes all config file resolution to dir. Tests
// use this to keep runs isolated from the real platform config paths.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
