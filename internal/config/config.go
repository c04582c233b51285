package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultBaseURL    = "https://www.artsy.net"
	DefaultImageWidth = 32
)

// Config represents the application configuration
type Config struct {
	BaseURL     string `toml:"base_url"`
	ImageWidth  int    `toml:"image_width"`
	OpenBrowser bool   `toml:"open_browser"`
	Color       bool   `toml:"color"`
}

// Default returns the configuration written on first run
func Default() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		ImageWidth: DefaultImageWidth,
		Color:      true,
	}
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{homeDir}, fallback...)...)
}

// GetLibraryPath returns the path to the artwork library
func GetLibraryPath() string {
	return filepath.Join(GetXDGDataHome(), "easel", "artworks")
}

// GetCacheDir returns the directory for rendered image caches
func GetCacheDir() string {
	return filepath.Join(GetXDGCacheHome(), "easel")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "easel", "config.toml")
}

// LoadConfig loads the config file, writing the defaults if there is none
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	return config, nil
}

func createDefaultConfig() (*Config, error) {
	config := Default()
	if err := SaveConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes the config file
func SaveConfig(config *Config) error {
	configPath := GetConfigFilePath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

// GetArtworkPath resolves an artwork either by name in the library or as a path
func GetArtworkPath(name string) (string, error) {
	libraryPath := GetLibraryPath()

	candidates := []string{filepath.Join(libraryPath, name)}
	if !strings.HasSuffix(name, ".json") {
		candidates = append(candidates, filepath.Join(libraryPath, name+".json"))
	}
	candidates = append(candidates, name)

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	return "", fmt.Errorf("artwork not found: %s", name)
}
