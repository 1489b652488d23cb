// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride redirects ConfigDir, primarily for tests, which cannot
// rely on os.UserHomeDir honoring HOME on every platform.
var configDirOverride string

// configFileOverride points Load at an explicit config file (--config flag).
var configFileOverride string

// Reset clears overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	configFileOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFileOverride makes Load read exactly the given file.
func SetConfigFileOverride(path string) {
	configFileOverride = path
}
