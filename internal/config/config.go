package config

import (
	"os"
	"path/filepath"
	"time"
)

const defaultBaseURL = "http://localhost:8000/api/v1"

type Config struct {
	BaseURL     string
	CacheDir    string
	DBPath      string
	SessionPath string
	LogPath     string
	SnippetTTL  time.Duration
	ListTTL     time.Duration
	UserTTL     time.Duration
	PageSize    int
}

func Default() Config {
	cacheDir := filepath.Join(userConfigDir(), "snipterm")
	baseURL := os.Getenv("SNIPTERM_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return Config{
		BaseURL:     baseURL,
		CacheDir:    cacheDir,
		DBPath:      filepath.Join(cacheDir, "cache.db"),
		SessionPath: filepath.Join(cacheDir, "session.json"),
		LogPath:     filepath.Join(cacheDir, "debug.log"),
		SnippetTTL:  5 * time.Minute,
		ListTTL:     60 * time.Second,
		UserTTL:     1 * time.Hour,
		PageSize:    30,
	}
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
