//go:build !windows

package tray

// No native message box off Windows; the log line from ShowWarning is the
// fallback surface.
func showMessageBox(title, message string) {}
