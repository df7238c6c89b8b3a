package config

import (
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

const (
	defaultCatalogPath = "catalog.json"
	defaultOutputDir   = "/tmp/songboard"

	// The remote catalog lives at a fixed URL; there is no per-install
	// configurability beyond the environment override below.
	defaultRemoteURL = "https://songboard.app/catalog.json"
)

// AppConfig holds application configuration
type AppConfig struct {
	logger      *zap.Logger
	catalogPath string
	remoteURL   string
	outputDir   string
	useRemote   bool
}

// NewAppConfig creates a new application configuration instance
func NewAppConfig(logger *zap.Logger) *AppConfig {
	// Read from environment variables or use defaults
	catalogPath := os.Getenv("SONGBOARD_CATALOG")
	if catalogPath == "" {
		catalogPath = defaultCatalogPath
	}

	remoteURL := os.Getenv("SONGBOARD_REMOTE_URL")
	if remoteURL == "" {
		remoteURL = defaultRemoteURL
	}

	outputDir := os.Getenv("SONGBOARD_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = defaultOutputDir
	}

	useRemote, _ := strconv.ParseBool(os.Getenv("SONGBOARD_USE_REMOTE"))

	catalogPath = expandPath(catalogPath)
	outputDir = expandPath(outputDir)

	logger.Info("Configuration loaded",
		zap.String("catalogPath", catalogPath),
		zap.String("remoteURL", remoteURL),
		zap.String("outputDir", outputDir),
		zap.Bool("useRemote", useRemote))

	return &AppConfig{
		logger:      logger,
		catalogPath: catalogPath,
		remoteURL:   remoteURL,
		outputDir:   outputDir,
		useRemote:   useRemote,
	}
}

// expandPath expands environment variables and a leading ~ in a path
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}

// UseRemote reports whether the catalog is fetched from the remote URL
func (c *AppConfig) UseRemote() bool {
	return c.useRemote
}

// CatalogPath returns the bundled catalog file path
func (c *AppConfig) CatalogPath() string {
	return c.catalogPath
}

// RemoteURL returns the remote catalog URL
func (c *AppConfig) RemoteURL() string {
	return c.remoteURL
}

// OutputDir returns the directory for generated posters
func (c *AppConfig) OutputDir() string {
	return c.outputDir
}
