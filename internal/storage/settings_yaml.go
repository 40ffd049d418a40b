package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"timersync/internal/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	Surface           string `yaml:"surface"`
	ListenPort        int    `yaml:"listen_port"`
	RefreshIntervalMS int    `yaml:"refresh_interval_ms"`
	GraceDelaySeconds int    `yaml:"grace_delay_seconds"`
	EventBuffer       int    `yaml:"event_buffer"`
	DefaultTitle      string `yaml:"default_title"`
	AccessLog         bool   `yaml:"access_log"`
}

// LoadSettings reads user preferences from the default settings path.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from configPath.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettingsFile writes user preferences to configPath.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		Surface:           string(settings.Surface),
		ListenPort:        settings.ListenPort,
		RefreshIntervalMS: int(settings.RefreshInterval / time.Millisecond),
		GraceDelaySeconds: int(settings.GraceDelay / time.Second),
		EventBuffer:       settings.EventBuffer,
		DefaultTitle:      settings.DefaultTitle,
		AccessLog:         settings.AccessLog,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// ResolveConfigPath returns the settings file path inside the user config dir.
func ResolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if kind, ok := preferences.ParseSurfaceKind(fileData.Surface); ok {
		settings.Surface = kind
	}
	if fileData.ListenPort > 0 && fileData.ListenPort <= 65535 {
		settings.ListenPort = fileData.ListenPort
	}
	if fileData.RefreshIntervalMS >= 250 {
		settings.RefreshInterval = time.Duration(fileData.RefreshIntervalMS) * time.Millisecond
	}
	if fileData.GraceDelaySeconds > 0 {
		settings.GraceDelay = time.Duration(fileData.GraceDelaySeconds) * time.Second
	}
	if fileData.EventBuffer > 0 {
		settings.EventBuffer = fileData.EventBuffer
	}
	if fileData.DefaultTitle != "" {
		settings.DefaultTitle = fileData.DefaultTitle
	}

	settings.AccessLog = fileData.AccessLog
}
