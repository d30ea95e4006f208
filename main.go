package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/echoram/dotmatrix/dotmatrix"
	"github.com/echoram/dotmatrix/dotmatrix/terminal"
)

// Minimal entry point: ROM path to terminal renderer. The full CLI with
// headless and snapshot modes lives in cmd/dotmatrix.
func main() {
	app := cli.NewApp()
	app.Name = "dotmatrix"
	app.Description = "A cycle-stepped Game Boy (DMG) emulator"
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("emulator failed", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("usage: dotmatrix <ROM file>")
	}

	machine, err := dotmatrix.NewWithFile(c.Args().First())
	if err != nil {
		return err
	}

	renderer, err := terminal.NewRenderer(machine)
	if err != nil {
		return err
	}
	return renderer.Run()
}
