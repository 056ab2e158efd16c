package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. Compare with errors.Is.
var (
	ErrIO             = errors.New("i/o error")
	ErrParse          = errors.New("parse error")
	ErrTransport      = errors.New("translator unreachable")
	ErrResponseFormat = errors.New("translator response malformed")
	ErrLookupMiss     = errors.New("lookup miss")
	ErrConfig         = errors.New("invalid configuration")
)

func WrapIO(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}

func WrapParse(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrParse, what, err)
}

func ParseErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

func WrapTransport(err error) error {
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func ResponseFormatf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrResponseFormat, fmt.Sprintf(format, args...))
}

func LookupMissf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrLookupMiss, fmt.Sprintf(format, args...))
}

func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
