package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"softraster/internal/config"
	"softraster/internal/display/headless"
	"softraster/internal/display/sshd"
	"softraster/internal/display/term"
	"softraster/internal/frameloop"
	"softraster/internal/logging"
	"softraster/internal/snapshot"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a TOML config file")
	backend := flag.String("backend", "", "Display backend: headless, terminal or ssh (default: headless)")
	width := flag.Int("width", 0, "Headless resolution width (default: 640)")
	height := flag.Int("height", 0, "Headless resolution height (default: 480)")
	frames := flag.Uint64("frames", 0, "Stop after N frames (default: run until quit)")
	snapshots := flag.String("snapshots", "", "Headless: directory to write frame snapshots to")
	format := flag.String("format", "", "Snapshot format: webp or tga (default: webp)")
	addr := flag.String("addr", "", "SSH listen address (default: :2222)")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error (default: info)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Backend:     *backend,
		Width:       *width,
		Height:      *height,
		MaxFrames:   *frames,
		SnapshotDir: *snapshots,
		Format:      *format,
		SSHAddr:     *addr,
		LogLevel:    *logLevel,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The terminal backend owns the screen, so it runs without log output.
	if cfg.Backend != config.BackendTerminal {
		logger, err := logging.New(cfg.LogLevel, os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logging.SetLogger(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cfg.Backend {
	case config.BackendHeadless:
		err = runHeadless(ctx, cfg)
	case config.BackendTerminal:
		err = runTerminal(ctx, cfg)
	case config.BackendSSH:
		err = runSSH(ctx, cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func loopOptions(cfg config.Config) []frameloop.Option {
	return []frameloop.Option{
		frameloop.WithInterval(cfg.Interval()),
		frameloop.WithMaxFrames(cfg.MaxFrames),
	}
}

func runHeadless(ctx context.Context, cfg config.Config) (err error) {
	wcfg := headless.Config{
		Width:         cfg.Width,
		Height:        cfg.Height,
		WindowWidth:   cfg.WindowWidth,
		WindowHeight:  cfg.WindowHeight,
		SnapshotEvery: cfg.SnapshotEvery,
	}

	var writer *snapshot.Writer
	if cfg.SnapshotDir != "" {
		format, _ := snapshot.ParseFormat(cfg.SnapshotFormat)
		writer, err = snapshot.NewWriter(snapshot.Config{
			Dir:     cfg.SnapshotDir,
			Format:  format,
			Workers: cfg.SnapshotWorkers,
		})
		if err != nil {
			return err
		}
		wcfg.Sink = writer
		defer func() {
			results, cerr := writer.Close()
			if cerr != nil && err == nil {
				err = cerr
			}
			fmt.Printf("Snapshots: %d written to %s\n", len(results), cfg.SnapshotDir)
		}()
	}

	win, err := headless.New(wcfg)
	if err != nil {
		return fmt.Errorf("create display: %w", err)
	}
	defer win.Close()

	loop, err := frameloop.New(win, frameloop.ContextInput(ctx, nil), loopOptions(cfg)...)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := loop.Run(); err != nil {
		return err
	}
	stats := loop.Stats()
	fmt.Printf("Rendered %d frames in %.1fs\n", stats.Frames, time.Since(start).Seconds())
	return nil
}

func runTerminal(ctx context.Context, cfg config.Config) error {
	win, err := term.New()
	if err != nil {
		return fmt.Errorf("create display: %w", err)
	}
	defer win.Close()

	loop, err := frameloop.New(win, frameloop.ContextInput(ctx, win), loopOptions(cfg)...)
	if err != nil {
		return err
	}
	return loop.Run()
}

func runSSH(ctx context.Context, cfg config.Config) error {
	created, err := sshd.EnsureHostKey(cfg.HostKeyPath)
	if err != nil {
		return err
	}
	if created {
		logging.Logger().Info("generated host key", "path", cfg.HostKeyPath)
	}

	srv, err := sshd.NewServer(sshd.Config{
		Addr:        cfg.SSHAddr,
		HostKeyPath: cfg.HostKeyPath,
		Interval:    cfg.Interval(),
		MaxFrames:   cfg.MaxFrames,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	fmt.Printf("Serving on %s, connect with: ssh -t -p <port> localhost\n", cfg.SSHAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
