// Package tray exposes the resident status icon: the runner state in the
// tooltip, a stop action, and quit.
package tray

import (
	"log"

	"github.com/getlantern/systray"
)

// Handler receives tray menu actions.
type Handler struct {
	OnRun  func()
	OnStop func()
	OnQuit func()
}

var mStop *systray.MenuItem

// Run starts the systray loop and blocks until Quit. onReady fires once
// the icon is up, after which SetStatus may be called from any goroutine.
func Run(h Handler, onReady func()) {
	systray.Run(func() {
		systray.SetTitle("AHK Workbench")
		systray.SetTooltip("AHK Workbench — Idle")

		mRun := systray.AddMenuItem("Run Active Script", "Run the project's active script")
		mStop = systray.AddMenuItem("Stop Script", "Stop the running script")
		mStop.Disable()
		mQuit := systray.AddMenuItem("Quit", "Quit AHK Workbench")

		go func() {
			for {
				select {
				case <-mRun.ClickedCh:
					if h.OnRun != nil {
						h.OnRun()
					}
				case <-mStop.ClickedCh:
					if h.OnStop != nil {
						h.OnStop()
					}
				case <-mQuit.ClickedCh:
					systray.Quit()
				}
			}
		}()

		if onReady != nil {
			onReady()
		}
	}, func() {
		if h.OnQuit != nil {
			h.OnQuit()
		}
	})
}

// SetStatus reflects the runner state in the tooltip and toggles the stop
// action. status is the state's display name ("Idle", "Running", "Error").
func SetStatus(status string) {
	systray.SetTooltip("AHK Workbench — " + status)
	if mStop == nil {
		return
	}
	if status == "Running" {
		mStop.Enable()
	} else {
		mStop.Disable()
	}
}

// Quit tears the icon down and unblocks Run.
func Quit() {
	systray.Quit()
}

// ShowWarning surfaces a capability problem (no hotkeys, no interpreter)
// where the user will actually see it.
func ShowWarning(title, message string) {
	log.Printf("WARNING: %s: %s", title, message)
	showMessageBox(title, message)
}
