package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zeusync/platformer/internal/core/observability/log"
	"github.com/zeusync/platformer/internal/injector"
	"github.com/zeusync/platformer/internal/runner"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "platformsim:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("platformsim", flag.ContinueOnError)
	var (
		scenes     = fs.String("scene", "", "comma-separated scene files (.yaml, .yml or .json)")
		logLevel   = fs.String("log-level", "info", "debug, info, warn, error or silent")
		tickLogDir = fs.String("ticklog", "", "directory for compressed per-scene frame logs")
		listen     = fs.String("listen", "", "address for the websocket frame viewer, e.g. 127.0.0.1:8090")
		realtime   = fs.Bool("realtime", false, "pace scenes to wall-clock time")
		parallel   = fs.Int("parallel", 0, "maximum scenes run at once (0 = all)")
		maxViewers = fs.Int("max-viewers", 0, "maximum websocket viewers (0 = unlimited)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	paths := append(splitList(*scenes), fs.Args()...)
	if len(paths) == 0 {
		fs.Usage()
		return fmt.Errorf("no scene files given")
	}

	app, err := injector.InitializeApp(injector.Options{
		LogLevel:   log.ParseLevel(*logLevel),
		MaxViewers: *maxViewers,
		Runner: runner.Config{
			TickLogDir:  *tickLogDir,
			Realtime:    *realtime,
			Parallelism: *parallel,
		},
	})
	if err != nil {
		return err
	}
	defer syncLogger(app.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stopCh)
	go func() {
		select {
		case sig := <-stopCh:
			app.Logger.Warn("stopping", log.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	if *listen != "" {
		if err := app.Server.Start(ctx, *listen); err != nil {
			return err
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if err := app.Server.Stop(stopCtx); err != nil {
				app.Logger.Warn("viewer shutdown", log.Err(err))
			}
		}()
	}

	results, err := app.Runner.RunFiles(ctx, paths)
	for _, r := range results {
		if r.Scene != "" {
			fmt.Println(r)
		}
	}
	return err
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func syncLogger(l log.Log) {
	if s, ok := l.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
