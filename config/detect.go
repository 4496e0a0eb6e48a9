package config

import (
	"os"
	"path/filepath"
)

var ahkExeNames = []string{
	"v2/AutoHotkey64.exe",
	"v2/AutoHotkey32.exe",
	"AutoHotkey64.exe",
	"AutoHotkey32.exe",
	"AutoHotkey.exe",
}

func ahkSearchDirs() []string {
	return []string{
		filepath.Join(getEnvWithDefault("ProgramFiles", `C:\Program Files`), "AutoHotkey"),
		filepath.Join(getEnvWithDefault("ProgramFiles(x86)", `C:\Program Files (x86)`), "AutoHotkey"),
		filepath.Join(os.Getenv("LOCALAPPDATA"), "Programs", "AutoHotkey"),
	}
}

// autoDetectAHK probes the standard install locations for a v2 interpreter,
// preferring the 64-bit build. Returns "" when nothing is found.
func autoDetectAHK() string {
	for _, dir := range ahkSearchDirs() {
		for _, name := range ahkExeNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}
