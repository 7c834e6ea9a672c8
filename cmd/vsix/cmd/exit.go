package cmd

import (
	"context"
	"errors"

	"github.com/barysiuk/vsix/internal/core"
)

// Process exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitUsage       = 2
	exitNotFound    = 3 // extension, asset or platform unavailable
	exitNetwork     = 4
	exitCorrupt     = 5
	exitInstall     = 6
	exitInterrupted = 130
)

// usageError marks bad command-line input.
type usageError struct{ err error }

func newUsageError(err error) error { return &usageError{err: err} }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.As(err, &usage), errors.Is(err, core.ErrInvalidExtensionID):
		return exitUsage
	case errors.Is(err, core.ErrExtensionNotFound),
		errors.Is(err, core.ErrNoCompatibleAsset),
		errors.Is(err, core.ErrUnsupportedPlatform):
		return exitNotFound
	case errors.Is(err, core.ErrGatewayUnavailable),
		errors.Is(err, core.ErrNetwork),
		errors.Is(err, core.ErrHTTPStatus):
		return exitNetwork
	case errors.Is(err, core.ErrCorruptPackage):
		return exitCorrupt
	case errors.Is(err, core.ErrInstallFailed),
		errors.Is(err, core.ErrExtractionFailed),
		errors.Is(err, core.ErrPermissionDenied):
		return exitInstall
	default:
		return exitError
	}
}
