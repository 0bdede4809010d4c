package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"projscan/internal/utils"
)

const (
	// errWorkingDirectoryFormat reports a failure to determine the working directory.
	errWorkingDirectoryFormat = "determine working directory: %w"
	// errResolveConfigFormat reports a configuration path that could not be resolved.
	errResolveConfigFormat = "resolve configuration path %s: %w"
	// errStatConfigFormat reports a configuration path that could not be inspected.
	errStatConfigFormat = "stat configuration %s: %w"
	// errConfigIsDirectoryFormat reports a configuration path naming a directory.
	errConfigIsDirectoryFormat = "configuration path %s is a directory"
	// errReadConfigFormat reports a configuration file that could not be read.
	errReadConfigFormat = "read configuration from %s: %w"
	// errDecodeConfigFormat reports a configuration file that could not be decoded.
	errDecodeConfigFormat = "decode configuration from %s: %w"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds scan defaults loaded from configuration files.
type ApplicationConfiguration struct {
	Scan ScanConfiguration `mapstructure:"scan"`
}

// ScanConfiguration mirrors the scan command's flag set. Pointer fields
// distinguish an explicit false from an unset value during merging.
type ScanConfiguration struct {
	Output         string   `mapstructure:"output"`
	Pretty         *bool    `mapstructure:"pretty"`
	TreeMarkdown   string   `mapstructure:"tree_md"`
	Ignore         []string `mapstructure:"ignore"`
	DiscardFilesIn []string `mapstructure:"discard_files_in"`
	DiscardAllIn   []string `mapstructure:"discard_all_in"`
	DiscardFiles   []string `mapstructure:"discard_files"`
	Manifests      []string `mapstructure:"manifests"`
	Clipboard      *bool    `mapstructure:"clipboard"`
}

// LoadApplicationConfiguration loads configuration from the global file under
// the user home and the local file in the working directory, merging local
// over global.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errWorkingDirectoryFormat, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfiguration, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfiguration, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfiguration)
	}

	merged.Scan.Ignore = dedupeOrNil(merged.Scan.Ignore)
	merged.Scan.DiscardFilesIn = dedupeOrNil(merged.Scan.DiscardFilesIn)
	merged.Scan.DiscardAllIn = dedupeOrNil(merged.Scan.DiscardAllIn)
	merged.Scan.DiscardFiles = dedupeOrNil(merged.Scan.DiscardFiles)
	merged.Scan.Manifests = dedupeOrNil(merged.Scan.Manifests)

	return merged, nil
}

func dedupeOrNil(values []string) []string {
	if values == nil {
		return nil
	}
	return utils.DeduplicateNames(values)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolutePath, absoluteError := filepath.Abs(explicitPath)
			if absoluteError != nil {
				return "", fmt.Errorf(errResolveConfigFormat, explicitPath, absoluteError)
			}
			return absolutePath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	pathInfo, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errStatConfigFormat, path, statError)
	}
	if pathInfo.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errConfigIsDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errReadConfigFormat, path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errDecodeConfigFormat, path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Scan = result.Scan.merge(override.Scan)
	return result
}

func (configuration ScanConfiguration) merge(override ScanConfiguration) ScanConfiguration {
	result := configuration
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Pretty != nil {
		result.Pretty = cloneBool(override.Pretty)
	}
	if override.TreeMarkdown != "" {
		result.TreeMarkdown = override.TreeMarkdown
	}
	if override.Ignore != nil {
		result.Ignore = append([]string{}, override.Ignore...)
	}
	if len(override.DiscardFilesIn) > 0 {
		result.DiscardFilesIn = append([]string{}, override.DiscardFilesIn...)
	}
	if len(override.DiscardAllIn) > 0 {
		result.DiscardAllIn = append([]string{}, override.DiscardAllIn...)
	}
	if len(override.DiscardFiles) > 0 {
		result.DiscardFiles = append([]string{}, override.DiscardFiles...)
	}
	if len(override.Manifests) > 0 {
		result.Manifests = append([]string{}, override.Manifests...)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
