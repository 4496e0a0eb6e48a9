package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ahk-workbench/spy"
)

var spyFollowMouse bool

var spyCmd = &cobra.Command{
	Use:   "spy",
	Short: "Capture one window/cursor/pixel snapshot as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := spy.NewEngine()
		snap := engine.Capture(spyFollowMouse, 0)

		out := struct {
			spy.Snapshot
			ColorHex string
		}{Snapshot: snap, ColorHex: snap.Color.Hex()}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	spyCmd.Flags().BoolVar(&spyFollowMouse, "follow-mouse", true, "inspect the window under the cursor instead of the foreground window")
}
