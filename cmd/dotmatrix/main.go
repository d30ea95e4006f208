package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/echoram/dotmatrix/dotmatrix"
	"github.com/echoram/dotmatrix/dotmatrix/terminal"
)

func main() {
	app := cli.NewApp()
	app.Name = "dotmatrix"
	app.Description = "A cycle-stepped Game Boy (DMG) emulator"
	app.Usage = "dotmatrix [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "Path to a 256-byte boot ROM image",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save a text snapshot every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory for frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("emulator failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		romPath = c.Args().Get(0)
	}

	var opts []dotmatrix.Option
	if bootPath := c.String("boot-rom"); bootPath != "" {
		image, err := os.ReadFile(bootPath)
		if err != nil {
			return fmt.Errorf("loading boot ROM: %w", err)
		}
		opts = append(opts, dotmatrix.WithBootROM(image))
	}

	machine, err := dotmatrix.NewWithFile(romPath, opts...)
	if err != nil {
		return err
	}

	if c.Bool("headless") {
		return runHeadless(c, machine, romPath)
	}

	renderer, err := terminal.NewRenderer(machine)
	if err != nil {
		return err
	}
	return renderer.Run()
}

func runHeadless(c *cli.Context, machine *dotmatrix.Machine, romPath string) error {
	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("headless mode requires --frames with a positive value")
	}

	interval := c.Int("snapshot-interval")
	dir := c.String("snapshot-dir")
	if interval > 0 {
		if dir == "" {
			tempDir, err := os.MkdirTemp("", "dotmatrix-snapshots-*")
			if err != nil {
				return fmt.Errorf("creating snapshot directory: %w", err)
			}
			dir = tempDir
		} else if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	romName := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	slog.Info("running headless", "frames", frames, "snapshotInterval", interval)

	for i := 1; i <= frames; i++ {
		frame := machine.RunFrame()

		if interval > 0 && i%interval == 0 {
			path := filepath.Join(dir, fmt.Sprintf("%s_frame_%d.txt", romName, i))
			if err := terminal.Snapshot(frame, path); err != nil {
				slog.Error("snapshot failed", "frame", i, "error", err)
			} else {
				slog.Debug("snapshot saved", "frame", i, "path", path)
			}
		}
	}

	slog.Info("headless run complete",
		"frames", frames,
		"instructions", machine.Instructions(),
		"cycles", machine.Cycles())
	return nil
}
