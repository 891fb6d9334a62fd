package mcp

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArguments marks tool inputs rejected before any work is done.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrNoMoodDetected is returned when text matches no mood keyword.
	ErrNoMoodDetected = errors.New("no mood detected")
	// ErrCatalogUnavailable is returned by catalog tools when the server was
	// started without catalog credentials.
	ErrCatalogUnavailable = errors.New("music catalog is not configured")
)

func invalidArgs(tool, format string, args ...any) error {
	return fmt.Errorf("%w for %s: %s", ErrInvalidArguments, tool, fmt.Sprintf(format, args...))
}
