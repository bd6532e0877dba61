package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/server"
	"taskboard/internal/service"
	"taskboard/internal/storage/sqlite"
	"taskboard/internal/util"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "taskboard",
	Short:         "Task board backend with archive, restore and delete lifecycles",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema and exit",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var purgeCmd = &cobra.Command{
	Use:       "purge boards|tasks",
	Short:     "Permanently delete every archived board or task",
	ValidArgs: []string{"boards", "tasks"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:      runPurge,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config",
		util.EnvOrDefault(util.EnvName(config.EnvPrefix, "config"), ""),
		"path to a config file (default: ./config.yaml or ./config/config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, purgeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds the slog logger selected by the log configuration.
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// setup loads configuration and opens the store, running migrations.
func setup() (*config.Config, *slog.Logger, *sqlite.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg.Log, os.Stdout)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := sqlite.Open(cfg.Database.Path, sqlite.Options{BusyTimeoutMS: cfg.Database.BusyTimeoutMS}, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, logger, store, nil
}

func newService(cfg *config.Config, store *sqlite.Store, logger *slog.Logger) *service.Service {
	return service.New(store, service.Options{
		BoardPrefix:     cfg.Names.BoardPrefix,
		TaskPrefix:      cfg.Names.TaskPrefix,
		DefaultPageSize: cfg.Pagination.DefaultSize,
		MaxPageSize:     cfg.Pagination.MaxSize,
	}, logger)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(newService(cfg, store, logger), logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Engine(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, _, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "database ready at %s\n", cfg.Database.Path)
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	cfg, logger, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	svc := newService(cfg, store, logger)
	var purge func(context.Context) (int64, error)
	switch args[0] {
	case "boards":
		purge = svc.PurgeBoards
	case "tasks":
		purge = svc.PurgeTasks
	default:
		return fmt.Errorf("unknown kind %q: want boards or tasks", args[0])
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	n, err := purge(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "purged %d archived %s\n", n, args[0])
	return nil
}
