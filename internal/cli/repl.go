package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/healthcal/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a recording stub.
type execIface interface {
	Render(ctx context.Context) error
	SetMode(ctx context.Context, mode string) error
	Prev(ctx context.Context) error
	Next(ctx context.Context) error
	Today(ctx context.Context) error
	Select(ctx context.Context, date string) error
	Show(ctx context.Context) error
	AddEvent(ctx context.Context) error
	EditEvent(ctx context.Context, args []string) error
	DeleteEvent(ctx context.Context, args []string) error
	AddRecord(ctx context.Context) error
	DeleteRecord(ctx context.Context, args []string) error
	Diary(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	Streak(ctx context.Context) error
}

const helpText = `Commands:
  month | week            switch the grid span
  prev | next | today     move through periods
  select <yyyy-mm-dd>     select a day
  show                    details of the selected day
  addevent                add an event (optionally repeating)
  editevent <id>          edit one occurrence or its whole series
  deleteevent <id>        delete one occurrence or its whole series
  addrecord               add health measurements
  deleterecord <id>       delete a health record
  diary [edit|delete|photo|photos]
  stats | streak          period statistics and logging streaks
  exit | quit`

// runREPL reads one command per line and dispatches it. Handler errors are
// reported to the user and never end the loop; EOF, exit and quit do.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("hc %s> ", promptFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "h", "?":
			printlnFn(helpText)
		case "month", "week":
			cmdErr = a.SetMode(ctx, cmd)
		case "prev", "p":
			cmdErr = a.Prev(ctx)
		case "next", "n":
			cmdErr = a.Next(ctx)
		case "today", "t":
			cmdErr = a.Today(ctx)
		case "select", "s":
			if len(args) != 1 {
				printlnFn("Usage: select <yyyy-mm-dd>")
				continue
			}
			cmdErr = a.Select(ctx, args[0])
		case "show":
			cmdErr = a.Show(ctx)
		case "addevent":
			cmdErr = a.AddEvent(ctx)
		case "editevent":
			cmdErr = a.EditEvent(ctx, args)
		case "deleteevent":
			cmdErr = a.DeleteEvent(ctx, args)
		case "addrecord":
			cmdErr = a.AddRecord(ctx)
		case "deleterecord":
			cmdErr = a.DeleteRecord(ctx, args)
		case "diary":
			cmdErr = a.Diary(ctx, args)
		case "stats":
			cmdErr = a.Stats(ctx)
		case "streak":
			cmdErr = a.Streak(ctx)
		case "exit", "quit", "q":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(userMessage(cmdErr))
		}
		if err != nil {
			return
		}
	}
}

// userMessage turns a handler error into one line for the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation):
		return "Invalid input: " + err.Error()
	case errors.Is(err, common.ErrNotFound):
		return "Not found: " + err.Error()
	case errors.Is(err, common.ErrInconsistentState):
		return "The series is inconsistent and was left unchanged: " + err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Cancelled."
	case errors.Is(err, io.EOF):
		return "Input closed."
	default:
		return "Error: " + err.Error()
	}
}
