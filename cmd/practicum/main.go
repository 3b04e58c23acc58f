package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/schologic/practicum/internal/cli"
	"github.com/schologic/practicum/internal/config"
	"github.com/schologic/practicum/internal/db"
	"github.com/schologic/practicum/internal/repository"
	"github.com/schologic/practicum/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir, err := config.DefaultDataDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	practicumRepo := repository.NewSQLitePracticumRepo(database)
	timelineStore := repository.NewSQLiteTimelineStore(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogCalls {
		observer = service.NewLogUseCaseObserver(os.Stderr, cfg.LogLevel)
	}

	app := &cli.App{
		Practicums:      service.NewPracticumService(practicumRepo, uow, observer),
		Timelines:       service.NewTimelineService(practicumRepo, timelineStore, observer),
		DefaultInterval: cfg.DefaultInterval,
		ShowLogs:        cfg.ShowLogs,
	}

	// Destructive commands prompt only on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
