// Package clipboard wraps the system clipboard behind an init guard so a
// failed initialization degrades to an error instead of a panic deeper in.
package clipboard

import (
	"fmt"

	"golang.design/x/clipboard"
)

var ready bool

func Init() error {
	if err := clipboard.Init(); err != nil {
		return err
	}
	ready = true
	return nil
}

func Write(text string) error {
	if !ready {
		return fmt.Errorf("clipboard is not initialized")
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
