package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrUnsupportedLevel is returned for a Log.LogLevel zerolog can not parse.
	ErrUnsupportedLevel = errors.New("unsupported log level")

	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")
)

// ErrorHandler reports events zerolog failed to write. The logger itself may
// be the broken part, so it goes straight to stderr.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "mellow: dropped log event: %v\n", err)
}
