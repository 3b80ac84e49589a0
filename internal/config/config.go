package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"quill/internal/common"
	"quill/pkg/models"
)

// GetConfigPath returns the directory holding quill's configuration
func GetConfigPath() string {
	// Check for environment variable first
	if configPath := os.Getenv("QUILL_CONFIG"); configPath != "" {
		return filepath.Dir(configPath)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".quill")
}

// GetConfigFile returns the configuration file location
func GetConfigFile() string {
	if configFile := os.Getenv("QUILL_CONFIG"); configFile != "" {
		// Validate the path to prevent directory traversal
		cleaned, err := common.CleanPath(configFile)
		if err != nil {
			return filepath.Join(GetConfigPath(), "config.yaml")
		}
		return cleaned
	}
	return filepath.Join(GetConfigPath(), "config.yaml")
}

// Load reads the configuration file; a missing file yields an empty
// configuration, not an error. A token stored in the ENC[...] envelope
// is decrypted on the way in.
func Load() (*models.Config, error) {
	configFile := GetConfigFile()

	cleanedPath, err := common.CleanPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	if _, err := os.Stat(cleanedPath); os.IsNotExist(err) {
		return &models.Config{}, nil
	}

	data, err := os.ReadFile(cleanedPath) // #nosec G304 - path is validated
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config models.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if IsEncrypted(config.API.Token) {
		token, err := DecryptToken(config.API.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt token: %w", err)
		}
		config.API.Token = token
	}

	return &config, nil
}

// Save writes the configuration file, encrypting the token at rest
func Save(config *models.Config) error {
	configPath := GetConfigPath()
	if err := os.MkdirAll(configPath, common.DirPermissionSecure); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Never write a plaintext token
	out := *config
	if out.API.Token != "" && !IsEncrypted(out.API.Token) {
		enc, err := EncryptToken(out.API.Token)
		if err != nil {
			return fmt.Errorf("failed to encrypt token: %w", err)
		}
		out.API.Token = enc
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(GetConfigFile(), data, common.FilePermissionSecure); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists reports whether a configuration file is present
func Exists() bool {
	_, err := os.Stat(GetConfigFile())
	return err == nil
}
