package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/tetsunavi/tetsunavi/internal/api"
	"github.com/tetsunavi/tetsunavi/internal/cli"
	"github.com/tetsunavi/tetsunavi/internal/cli/formatter"
	"github.com/tetsunavi/tetsunavi/internal/config"
	"github.com/tetsunavi/tetsunavi/internal/db"
	"github.com/tetsunavi/tetsunavi/internal/query"
	"github.com/tetsunavi/tetsunavi/internal/repository"
	"github.com/tetsunavi/tetsunavi/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, formatter.FormatError(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	// Open database (bookmarks only; everything else lives on the backend)
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	bookmarks := repository.NewSQLiteBookmarkRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observer api.Observer = api.NoopObserver{}
	if cfg.LogCalls {
		observer = api.NewSlogObserver(logger)
	}
	client := api.NewClient(api.Config{BaseURL: cfg.APIURL, Timeout: cfg.Timeout()}, observer)

	retry := query.DefaultRetryPolicy()
	retry.Retries = cfg.MaxRetries
	cache := query.NewClient(
		query.WithRetry(retry),
		query.WithObserver(query.NewLogObserver(logger)),
		query.WithRefetchOnReconnect(cfg.RefetchOnReconnect),
		query.WithRefetchOnFocus(cfg.RefetchOnFocus),
	)

	useCases := service.NewSlogUseCaseObserver(logger)
	app := &cli.App{
		Sessions:   service.NewSessionService(client, cache, bookmarks, uow, useCases),
		Procedures: service.NewProcedureService(client, cache, useCases),
		Timeline:   service.NewTimelineService(client, cache, useCases),
		Chat:       service.NewChatService(client, useCases),
		Config:     cfg,
	}

	// Spinners and forms only make sense on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
