package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/kunal-511/weekendly/internal/catalog"
	"github.com/kunal-511/weekendly/internal/keyring"
	"github.com/kunal-511/weekendly/internal/logger"
	"github.com/kunal-511/weekendly/internal/scheduler"
	"github.com/kunal-511/weekendly/internal/storage/postgres"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a short suggestion for errors a user can fix from the CLI.
func Hint(err error) string {
	switch {
	case stderrors.Is(err, scheduler.ErrDayInactive):
		return "add the day first with 'weekendly day <friday|monday>' or 'weekendly day --long-weekend'"
	case stderrors.Is(err, scheduler.ErrCoreDay):
		return "only friday and monday can be toggled"
	case stderrors.Is(err, scheduler.ErrAlreadyScheduled):
		return "use 'weekendly move' to reschedule it"
	case stderrors.Is(err, scheduler.ErrUnresolvedClash):
		return "pass --override, or --to <day/slot> with one of the suggested slots"
	case stderrors.Is(err, catalog.ErrUnknownActivity):
		return "run 'weekendly catalog' to list activity ids"
	case stderrors.Is(err, keyring.ErrNotFound):
		return "store one with 'weekendly keyring set <dsn>'"
	case stderrors.Is(err, postgres.ErrEmbeddedCredentials):
		return "move the password to ~/.pgpass or the OS keyring"
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
