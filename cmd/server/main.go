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

	"github.com/zeusync/chitin/internal/config"
	"github.com/zeusync/chitin/internal/core/observability/log"
	"github.com/zeusync/chitin/internal/core/scene"
	"github.com/zeusync/chitin/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "engine config file (YAML)")
	scenes := flag.String("scene", "", "comma separated scene files (YAML or JSON)")
	ticks := flag.Int("ticks", 0, "run this many fixed steps headless and print the final checksum")
	flag.Parse()

	if err := run(*configPath, *scenes, *ticks); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath, scenes string, ticks int) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	app, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	w, srv := app.World, app.Server

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if scenes != "" {
		configs, err := scene.LoadFiles(ctx, strings.Split(scenes, ",")...)
		if err != nil {
			return err
		}
		for _, sc := range configs {
			if _, err = sc.Build(w); err != nil {
				return err
			}
		}
	}

	if ticks > 0 {
		if err = w.Kernel.RunSteps(ticks); err != nil {
			return err
		}
		f := w.Frame()
		fmt.Printf("tick=%d bodies=%d checksum=%016x\n", f.Tick, len(f.Bodies), f.Checksum())
		return nil
	}

	release, err := srv.Watch(w.Bus)
	if err != nil {
		return err
	}
	defer release()

	w.Kernel.OnStep(func(uint64, float64) {
		if _, err := srv.Broadcast(w.Frame()); err != nil {
			w.Logger.Warn("Broadcast failed", log.Error(err))
		}
	})
	if err = srv.Start(ctx); err != nil {
		return err
	}

	runErr := w.Kernel.Run(ctx)

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = srv.Stop(shutdown); err != nil {
		w.Logger.Error("Error stopping server", log.Error(err))
	}
	return runErr
}
