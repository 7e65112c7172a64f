package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/healthcal/internal/calendar"
	"github.com/dmitrijs2005/healthcal/internal/logging"
	"github.com/dmitrijs2005/healthcal/internal/models"
)

// EventService is the slice of the event use cases the client drives.
type EventService interface {
	Create(ctx context.Context, anchor models.Event) ([]models.Event, error)
	Get(ctx context.Context, userID, id string) (*models.Event, error)
	UpdateSingle(ctx context.Context, userID, id string, patch models.EventPatch) (models.Event, error)
	UpdateGroup(ctx context.Context, userID, groupID string, patch models.EventPatch) ([]models.Event, error)
	DeleteSingle(ctx context.Context, userID, id string) error
	DeleteGroup(ctx context.Context, userID, groupID string) (int, error)
}

type RecordService interface {
	Create(ctx context.Context, rec models.HealthRecord) (models.HealthRecord, error)
	Delete(ctx context.Context, userID, id string) error
}

type DiaryService interface {
	Save(ctx context.Context, entry models.DiaryEntry) (models.DiaryEntry, error)
	Get(ctx context.Context, userID, date string) (*models.DiaryEntry, error)
	Delete(ctx context.Context, userID, date string) error
	AttachPhoto(ctx context.Context, userID, date, key string) error
}

type PhotoService interface {
	PresignUpload(ctx context.Context, userID, date string) (key, url string, err error)
	PresignDownload(ctx context.Context, userID, key string) (string, error)
}

// Options wires an App. In and Out default to the process stdio; Width 0
// means "ask the terminal".
type Options struct {
	UserID  string
	View    *calendar.ViewModel
	Events  EventService
	Records RecordService
	Diary   DiaryService
	Photos  PhotoService
	Log     logging.Logger

	In    io.Reader
	Out   io.Writer
	Color bool
	Width int
}

type App struct {
	userID  string
	view    *calendar.ViewModel
	events  EventService
	records RecordService
	diary   DiaryService
	photos  PhotoService
	log     logging.Logger

	reader *bufio.Reader
	out    io.Writer
	paint  painter
	width  int
}

func NewApp(opts Options) *App {
	a := &App{
		userID:  opts.UserID,
		view:    opts.View,
		events:  opts.Events,
		records: opts.Records,
		diary:   opts.Diary,
		photos:  opts.Photos,
		log:     opts.Log,
		out:     opts.Out,
		paint:   painter{enabled: opts.Color},
		width:   opts.Width,
	}
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	a.reader = bufio.NewReader(in)
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.log == nil {
		a.log = logging.Nop()
	}
	if a.width <= 0 {
		a.width = termWidth()
	}
	return a
}

func (a *App) prompt() string {
	return fmt.Sprintf("%s %s %s", a.userID, a.view.Mode(), a.view.Selected())
}

// Run prints the current month and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to healthcal (type 'help' for commands)")
	if err := a.Render(ctx); err != nil {
		printlnFn(userMessage(err))
	}
	runREPL(ctx, a, a.prompt, a.reader)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
