package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ahk-workbench/config"
	"ahk-workbench/logutil"
	"ahk-workbench/runner"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run one script headlessly and stream its output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logutil.Setup(cfg.EnableFileLogging)

		if cfg.AHKExePath == "" {
			return fmt.Errorf("no AutoHotkey v2 interpreter found; set AHK_EXE_PATH")
		}

		proj, err := openProject()
		if err != nil {
			return err
		}
		workDir := ""
		if cfg.WorkingDirMode == config.WorkingDirProject && proj != nil {
			workDir = proj.Root()
		}

		r := runner.New()
		r.Run(runner.Request{
			InterpreterPath: cfg.AHKExePath,
			ScriptPath:      args[0],
			Flags:           cfg.AHKFlags,
			Args:            cfg.AHKArgs,
			WorkingDir:      workDir,
		})

		graceful := time.Duration(cfg.GracefulKillTimeoutMs) * time.Millisecond
		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case <-interrupts:
				log.Printf("Interrupted, stopping script")
				r.Stop(graceful)
			case ev := <-r.Events():
				switch e := ev.(type) {
				case runner.Output:
					if e.Stream == "stderr" {
						fmt.Fprint(os.Stderr, e.Text)
					} else {
						fmt.Print(e.Text)
					}
				case runner.Completed:
					fmt.Fprintln(os.Stderr, e.Message)
					if e.ExitCode != 0 {
						code := e.ExitCode
						if code < 0 {
							code = 1
						}
						os.Exit(code)
					}
					return nil
				}
			}
		}
	},
}
