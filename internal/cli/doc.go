// Package cli implements the interactive terminal client: a line-oriented
// REPL over the calendar view model and the event, record, diary and photo
// services.
//
// Each command re-renders from freshly loaded data, so what the user sees
// always reflects the last successful write.
package cli
