// ahk-workbench is a resident desktop helper for writing AutoHotkey v2
// scripts: it watches the window and cursor under the mouse, turns global
// hotkey presses into ready-to-paste AHK statements, and runs scripts
// through the configured interpreter.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ahk-workbench/clipboard"
	"ahk-workbench/config"
	"ahk-workbench/dispatch"
	"ahk-workbench/hotkey"
	"ahk-workbench/logutil"
	"ahk-workbench/project"
	"ahk-workbench/runner"
	"ahk-workbench/spy"
	"ahk-workbench/tray"
)

const version = "dev"

var projectDir string

var rootCmd = &cobra.Command{
	Use:           "ahk-workbench",
	Short:         "Hotkey-driven AHK v2 snippet generator and script runner",
	Long:          "Watches the window under the cursor, generates AutoHotkey v2 statements on global hotkeys, and runs scripts through the configured interpreter.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runResident,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", "", "project folder to open")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(spyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func openProject() (*project.Project, error) {
	if projectDir == "" {
		return nil, nil
	}
	proj, err := project.Open(projectDir)
	if err != nil {
		return nil, err
	}
	if hist, err := project.LoadHistory(); err == nil {
		if err := hist.Add(proj.Root()); err != nil {
			log.Printf("Failed to record project history: %v", err)
		}
	}
	return proj, nil
}

func runResident(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logutil.Setup(cfg.EnableFileLogging)
	log.Printf("Starting ahk-workbench %s", version)

	copyFragments := true
	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable: %v", err)
		copyFragments = false
	}

	proj, err := openProject()
	if err != nil {
		return err
	}

	engine := spy.NewEngine()
	watcher := spy.NewWatcher(engine, time.Duration(cfg.CaptureCadenceMs)*time.Millisecond)
	manager := hotkey.NewManager()
	run := runner.New()

	loop := dispatch.New(dispatch.Options{
		Snapshots:       watcher,
		Hotkeys:         manager,
		Runner:          run,
		Config:          cfg,
		Project:         proj,
		CopyToClipboard: copyFragments,
		OnRunnerEvent:   printRunnerEvent,
		OnWarning: func(msg string) {
			tray.ShowWarning("AHK Workbench", msg)
		},
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go watcher.Run(ctx)
	go loop.Run(ctx)

	// Without an attached editor the fragments go straight to stdout.
	loop.SetEditorFocused(true)
	go func() {
		for text := range loop.Inserts() {
			fmt.Println(text)
		}
	}()

	go func() {
		<-ctx.Done()
		tray.Quit()
	}()

	tray.Run(tray.Handler{
		OnRun:  func() { loop.RequestRun(dispatch.RunCommand{}) },
		OnStop: loop.RequestStop,
		OnQuit: cancel,
	}, func() {
		tray.SetStatus(runner.Idle.String())
		if !engine.Available() {
			tray.ShowWarning("AHK Workbench", "Window and pixel inspection is not available on this platform")
		}
		if cfg.AHKExePath == "" {
			tray.ShowWarning("AHK Workbench", "No AutoHotkey v2 interpreter found; set AHK_EXE_PATH")
		}
	})

	// Tray loop exited; give the running child a short graceful stop.
	run.Stop(time.Duration(cfg.GracefulKillTimeoutMs) * time.Millisecond)
	log.Printf("Shut down")
	return nil
}

func printRunnerEvent(ev runner.Event) {
	switch e := ev.(type) {
	case runner.StateChanged:
		tray.SetStatus(e.State.String())
	case runner.Output:
		if e.Stream == "stderr" {
			fmt.Fprint(os.Stderr, e.Text)
		} else {
			fmt.Print(e.Text)
		}
	case runner.Completed:
		log.Printf("Run %s finished: %s", e.RunID, e.Message)
	}
}
