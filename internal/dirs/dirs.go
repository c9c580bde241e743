// Package dirs locates the per-user directories tifpng reads from.
package dirs

import (
	"errors"
	"os"
	"path/filepath"
)

const appName = "tifpng"

// ConfigExts are the config file formats picked up from ConfigDir, in
// lookup order.
var ConfigExts = []string{"yaml", "yml", "toml", "json"}

// AppName returns the canonical application name for directory paths.
func AppName() string {
	return appName
}

// ConfigDir returns the app's configuration directory:
// $XDG_CONFIG_HOME/tifpng or ~/.config/tifpng on Linux,
// ~/Library/Application Support/tifpng on macOS, %AppData%\tifpng on Windows.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// ConfigFiles lists the config file paths that would be considered, whether
// or not they exist.
func ConfigFiles() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ConfigExts))
	for _, ext := range ConfigExts {
		out = append(out, filepath.Join(dir, "config."+ext))
	}
	return out, nil
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}
