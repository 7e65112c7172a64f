// Package app wires configuration, storage, services and the terminal
// client together and runs the client until the user leaves or the process
// is signalled.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/healthcal/internal/calendar"
	"github.com/dmitrijs2005/healthcal/internal/cli"
	"github.com/dmitrijs2005/healthcal/internal/config"
	"github.com/dmitrijs2005/healthcal/internal/logging"
	"github.com/dmitrijs2005/healthcal/internal/recurrence"
	"github.com/dmitrijs2005/healthcal/internal/repositories/memory"
	"github.com/dmitrijs2005/healthcal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/healthcal/internal/services"
)

// newPostgresManager is a test seam for opening the database.
var newPostgresManager = func(ctx context.Context, dsn string, loc *time.Location) (repomanager.Manager, error) {
	return repomanager.NewPostgresManager(ctx, dsn, loc)
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.Manager
	client  *cli.App
}

// NewApp opens storage (PostgreSQL when a DSN is configured, memory
// otherwise), applies migrations and builds the client. in and out are the
// terminal streams; logs go to logOut.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	logger, err := logging.New(logOut, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	weekStart, err := calendar.ParseWeekStart(c.WeekStart)
	if err != nil {
		return nil, err
	}

	var m repomanager.Manager
	if c.DatabaseDSN == "" {
		logger.Info(ctx, "using in-memory store; data is lost on exit")
		m = repomanager.NewMemoryManager(memory.NewStore())
	} else {
		m, err = newPostgresManager(ctx, c.DatabaseDSN, loc)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := m.RunMigrations(ctx); err != nil {
			m.Close()
			return nil, fmt.Errorf("db init error: %w", err)
		}
		logger.Info(ctx, "connected to postgres")
	}

	expander := recurrence.Expander{
		MaxOccurrences:    c.MaxOccurrences,
		DefaultSpanMonths: c.DefaultRepeatMonths,
	}
	view := calendar.NewViewModel(services.NewTimelineService(m), calendar.Options{
		UserID:    c.UserID,
		WeekStart: weekStart,
		Location:  loc,
	})

	client := cli.NewApp(cli.Options{
		UserID:  c.UserID,
		View:    view,
		Events:  services.NewEventService(m, expander, logger),
		Records: services.NewRecordService(m, logger),
		Diary:   services.NewDiaryService(m, logger),
		Photos:  services.NewPhotoService(c),
		Log:     logger,
		In:      in,
		Out:     out,
		Color:   out == os.Stdout && !color.NoColor,
	})

	return &App{config: c, logger: logger, manager: m, client: client}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
		signal.Stop(sigs)
	}()
}

// Run serves the terminal client and closes storage on the way out.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "starting", "user", app.config.UserID)
	app.client.Run(ctx)

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "close storage", "err", err)
	}
}
