// Package config provides configuration management for md-math-fixer.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Gongzihang6/md-math-fixer/internal/logger"
	"github.com/Gongzihang6/md-math-fixer/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "md-math-fixer-config.json"
	// DefaultMarkerStart is the default highlight start marker
	DefaultMarkerStart = "=="
	// DefaultMarkerEnd is the default highlight end marker
	DefaultMarkerEnd = "=="
	// DefaultBackupKeepCount is the default number of backups kept per file
	DefaultBackupKeepCount = 5
	// DefaultLogLevel is the default minimum log level
	DefaultLogLevel = "info"
)

// ConfigManager manages application configuration
type ConfigManager struct {
	configPath string
	config     *types.Config
}

// NewConfigManager creates a new ConfigManager with the specified config path.
// If configPath is empty, it uses the default path in user's home directory.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "md-math-fixer", DefaultConfigFileName)
	}

	logger.Debug("ConfigManager initialized", logger.String("configPath", configPath))
	return &ConfigManager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		MarkerStart:     DefaultMarkerStart,
		MarkerEnd:       DefaultMarkerEnd,
		ExtraMathVars:   nil,
		ExtraStopwords:  nil,
		BackupEnabled:   true,
		BackupKeepCount: DefaultBackupKeepCount,
		LogLevel:        DefaultLogLevel,
	}
}

// Load loads configuration from the config file.
// If the file doesn't exist, it uses default values.
func (m *ConfigManager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, use defaults
			logger.Debug("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		// Unmarshal over the defaults so a field absent from the file
		// keeps its default value. An explicit value, including
		// backup_enabled=false, still wins.
		cfg := defaultConfig()
		if err := json.Unmarshal(data, cfg); err != nil {
			// Invalid JSON, use defaults
			logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			logger.Debug("configuration loaded",
				logger.String("path", m.configPath),
				logger.Int("extraMathVars", len(cfg.ExtraMathVars)),
				logger.Int("extraStopwords", len(cfg.ExtraStopwords)))
			m.config = cfg
		}
	}

	// Apply defaults for empty fields
	if m.config.MarkerStart == "" {
		m.config.MarkerStart = DefaultMarkerStart
	}
	if m.config.MarkerEnd == "" {
		m.config.MarkerEnd = DefaultMarkerEnd
	}
	if m.config.BackupKeepCount == 0 {
		m.config.BackupKeepCount = DefaultBackupKeepCount
	}
	if m.config.LogLevel == "" {
		m.config.LogLevel = DefaultLogLevel
	}

	return nil
}

// Save saves the current configuration to the config file.
func (m *ConfigManager) Save() error {
	logger.Debug("saving configuration", logger.String("path", m.configPath))

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved", logger.String("path", m.configPath))
	return nil
}

// GetConfig returns the current configuration.
func (m *ConfigManager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// SetConfig sets the entire configuration.
func (m *ConfigManager) SetConfig(cfg *types.Config) {
	m.config = cfg
}

// GetConfigPath returns the path to the config file.
func (m *ConfigManager) GetConfigPath() string {
	return m.configPath
}

// GetMarkerStart returns the highlight start marker.
func (m *ConfigManager) GetMarkerStart() string {
	if m.config != nil && m.config.MarkerStart != "" {
		return m.config.MarkerStart
	}
	return DefaultMarkerStart
}

// GetMarkerEnd returns the highlight end marker.
func (m *ConfigManager) GetMarkerEnd() string {
	if m.config != nil && m.config.MarkerEnd != "" {
		return m.config.MarkerEnd
	}
	return DefaultMarkerEnd
}

// GetBackupKeepCount returns the number of backups kept per file.
func (m *ConfigManager) GetBackupKeepCount() int {
	if m.config != nil && m.config.BackupKeepCount > 0 {
		return m.config.BackupKeepCount
	}
	return DefaultBackupKeepCount
}
