package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/voxgrid/engine"
	"github.com/spaghettifunk/voxgrid/testbed"
)

func usage() {
	fmt.Println("Usage: voxgrid <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  build [-config file.toml] [-out dir] [-log-level level] [-metrics addr]   (build every configured grid once)")
	fmt.Println("  watch -config file.toml [-out dir] [-log-level level] [-metrics addr]     (rebuild whenever the file changes)")
	fmt.Println("  inspect file.vxg [file.vxg ...]                                           (verify grid resources and print their stats)")
}

func applicationFlags(name string, args []string) (*engine.ApplicationConfig, error) {
	app := &engine.ApplicationConfig{Name: "voxgrid"}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&app.ConfigPath, "config", "", "TOML scene file, the built-in demo scene when empty")
	fs.StringVar(&app.OutputDir, "out", "", "output directory, overrides output_dir")
	fs.StringVar(&app.LogLevel, "log-level", "", "debug, info, warn or error, overrides log_level")
	fs.StringVar(&app.MetricsAddr, "metrics", "", "metrics listen address, '-' disables, overrides metrics_addr")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("unexpected arguments %v", fs.Args())
	}
	return app, nil
}

func run(command string, args []string) error {
	switch command {
	case "inspect":
		if len(args) == 0 {
			usage()
			os.Exit(1)
		}
		for _, path := range args {
			if err := engine.WriteInspection(os.Stdout, path); err != nil {
				return err
			}
		}
		return nil
	case "build", "watch":
	default:
		usage()
		os.Exit(1)
	}

	app, err := applicationFlags(command, args)
	if err != nil {
		return err
	}
	tb := testbed.NewTestGame(app)

	e, err := engine.New(tb.Game)
	if err != nil {
		return err
	}
	if err := e.Initialize(); err != nil {
		return err
	}
	defer e.Shutdown()

	// signal channel to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if command == "watch" {
		return e.Watch(ctx)
	}
	_, err = e.Build(ctx)
	return err
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
