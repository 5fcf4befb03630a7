// cmd/jarlaunch/main.go
//
// This is the entry point for the jarlaunch launcher.
// Dropping a folder onto jarlaunch.exe (or running `jarlaunch <folder>`) lands here.
//
// Flow:
// 1. Resolve the launcher directory and load .jarlaunch/config.yaml
// 2. Make sure Python can import the module jarpy.py needs
// 3. Validate the folder, ask for a mode, run jarpy.py, wait for a key

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func init() {
	// Drag-and-drop launches come from Explorer; cobra would otherwise refuse to run.
	cobra.MousetrapHelpText = ""
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, newApp(), os.Args[1:])
	stop()
	os.Exit(code)
}
