package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/videonote/shell"
)

func buildRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "vnshell",
		Short:        "VideoNote shell: supervises the backend sidecar and serves the GUI boundary",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newLogsCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var f ServeFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Launch the sidecar and serve the local boundary API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(f)
		},
	}
	cmd.Flags().StringVarP(&f.ConfigPath, "config", "c", "vnshell.toml", "path to TOML config")
	return cmd
}

func runServe(f ServeFlags) error {
	cfg, err := shell.LoadConfig(f.ConfigPath)
	if err != nil {
		return err
	}

	slog.SetDefault(cfg.Log.NewSlogger())
	if err := shell.RegisterMetricsDefault(); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	hub := shell.NewHub()
	defer hub.Close()

	sup := shell.New(cfg.Spec())
	sup.SetNotifier(hub)

	if cfg.History.DSN != "" {
		sink, err := shell.NewHistorySink(cfg.History.DSN)
		if err != nil {
			return fmt.Errorf("history sink: %w", err)
		}
		defer func() { _ = sink.Close() }()
		sup.SetHistorySink(sink)
	}

	// A spawn failure does not bring the shell down: the boundary stays up so
	// the GUI can query the port (and get the not-available error) or read
	// the error notification it may have missed.
	if err := sup.Start(); err != nil {
		slog.Error("sidecar failed to start", slog.Any("error", err))
	}

	srv := shell.NewBoundaryServer(cfg.Server.Listen, cfg.Server.BasePath, sup, hub, cfg.Log.File.Dir)
	slog.Info("boundary API listening", slog.String("addr", cfg.Server.Listen))

	if cfg.Server.MetricsListen != "" {
		go func() {
			if err := shell.ServeMetrics(cfg.Server.MetricsListen); err != nil &&
				!errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server stopped", slog.Any("error", err))
			}
		}()
	}

	if f.NonBlocking {
		return nil
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("shutting down", slog.String("signal", sig.String()))

	sup.Stop(StopWait)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func newLogsCmd() *cobra.Command {
	var f LogsFlags
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the captured sidecar log files, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := f.Dir
			if dir == "" {
				cfg, err := shell.LoadConfig(f.ConfigPath)
				if err != nil {
					return err
				}
				dir = cfg.Log.File.Dir
			}
			out, err := shell.CollectLogs(dir)
			if err != nil {
				return err
			}
			cmd.Println(out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.ConfigPath, "config", "c", "vnshell.toml", "path to TOML config")
	cmd.Flags().StringVar(&f.Dir, "dir", "", "log directory (overrides config)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the vnshell version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("vnshell " + version)
		},
	}
}
