// Command rambo is the CLI entry point for the NES emulator core, per
// spec.md §6's external CLI surface: "a command like
// rambo <rom.nes> [--headless] [--fast-forward] [--no-video]".
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ramjac-digital/rambo/internal/app"
	"github.com/ramjac-digital/rambo/internal/config"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code: 0 on success, nonzero for ROM-load
// or configuration errors, per spec.md §6's exit-code contract.
func run() int {
	var (
		configFile  = flag.String("config", "", "path to configuration file")
		headless    = flag.Bool("headless", false, "run without a video window")
		fastForward = flag.Bool("fast-forward", false, "start in fast-forward mode")
		noVideo     = flag.Bool("no-video", false, "disable video output entirely")
		saveDir     = flag.String("save-dir", "", "directory for save states (default: ./saves)")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: rambo <rom.nes> [--headless] [--fast-forward] [--no-video]")
		return 2
	}

	cfg := config.Default()
	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rambo: reading config %q: %v\n", *configFile, err)
			return 1
		}
		cfg = config.Parse(data)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application := app.New(app.Options{
		ROMPath:      flag.Arg(0),
		Config:       cfg,
		Headless:     *headless,
		FastForward:  *fastForward,
		NoVideo:      *noVideo,
		SaveStateDir: *saveDir,
	})

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "rambo: %v\n", err)
		return 1
	}
	return 0
}
