package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// WorkingDirMode selects the child process working directory: the script's
// own directory or the open project root.
const (
	WorkingDirScript  = "script"
	WorkingDirProject = "project"
)

type Config struct {
	// AutoHotkey interpreter
	AHKExePath string
	AHKFlags   string
	AHKArgs    string

	// Runner
	WorkingDirMode        string
	GracefulKillTimeoutMs int

	// Inspector
	CaptureCadenceMs int
	DefaultCoordMode string
	ColorVariation   int

	// Hotkey trigger letters, combined with Ctrl+Shift
	HotkeyClick          string
	HotkeyDrag           string
	HotkeyPixelLoop      string
	HotkeyActivateWindow string

	EnableFileLogging bool
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or executable directory
	envPaths := []string{".env"}
	if execPath, err := os.Executable(); err == nil {
		envPaths = append(envPaths, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			godotenv.Load(envPath)
			break
		}
	}

	cfg := &Config{
		AHKExePath:            os.Getenv("AHK_EXE_PATH"),
		AHKFlags:              os.Getenv("AHK_FLAGS"),
		AHKArgs:               os.Getenv("AHK_ARGS"),
		WorkingDirMode:        getEnvWithDefault("WORKING_DIR_MODE", WorkingDirScript),
		GracefulKillTimeoutMs: getEnvInt("GRACEFUL_KILL_TIMEOUT_MS", 2000),
		CaptureCadenceMs:      getEnvInt("CAPTURE_CADENCE_MS", 500),
		DefaultCoordMode:      getEnvWithDefault("DEFAULT_COORD_MODE", "Window"),
		ColorVariation:        getEnvInt("COLOR_VARIATION", 5),
		HotkeyClick:           getEnvWithDefault("HOTKEY_CLICK", "K"),
		HotkeyDrag:            getEnvWithDefault("HOTKEY_DRAG", "D"),
		HotkeyPixelLoop:       getEnvWithDefault("HOTKEY_PIXEL_LOOP", "L"),
		HotkeyActivateWindow:  getEnvWithDefault("HOTKEY_ACTIVATE_WINDOW", "A"),
		EnableFileLogging:     strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}

	if cfg.AHKExePath == "" {
		cfg.AHKExePath = autoDetectAHK()
	}
	if cfg.WorkingDirMode != WorkingDirScript && cfg.WorkingDirMode != WorkingDirProject {
		cfg.WorkingDirMode = WorkingDirScript
	}
	switch cfg.DefaultCoordMode {
	case "Screen", "Window", "Client":
	default:
		cfg.DefaultCoordMode = "Window"
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			return n
		}
	}
	return defaultValue
}
