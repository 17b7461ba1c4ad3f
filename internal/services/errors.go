package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks missing secrets and unusable config files.
	ErrConfiguration = errors.New("configuration error")
	// ErrFormat marks dataset files or remote payloads that cannot be decoded.
	ErrFormat = errors.New("format error")
	// ErrNotFound marks an absent candidate, subtitle, or dialogue.
	ErrNotFound = errors.New("not found")
	// ErrIO marks filesystem failures such as writes and locks.
	ErrIO = errors.New("io error")
	// ErrValidation marks rejected operator or caller input.
	ErrValidation = errors.New("validation error")
	// ErrExternal marks failed calls to TMDB or OpenSubtitles.
	ErrExternal = errors.New("external service error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration):
		return 2
	default:
		return 1
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
