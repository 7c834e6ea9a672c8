package core

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every failure returned by the core wraps exactly one of these,
// so callers can branch with errors.Is without knowing which component failed.
var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrNoCompatibleAsset   = errors.New("no compatible asset")
	ErrExtensionNotFound   = errors.New("extension not found")
	ErrInvalidExtensionID  = errors.New("invalid extension id")
	ErrGatewayUnavailable  = errors.New("marketplace unavailable")
	ErrNetwork             = errors.New("network error")
	ErrHTTPStatus          = errors.New("unexpected http status")
	ErrCorruptPackage      = errors.New("corrupt package")
	ErrInstallFailed       = errors.New("install failed")
	ErrExtractionFailed    = errors.New("extraction failed")
	ErrPermissionDenied    = errors.New("permission denied")
)

// Error carries the context needed to produce an actionable message:
// which extension, which asset and which install method were involved.
type Error struct {
	Kind       error  // one of the Err* sentinels above
	Extension  string // publisher.name
	Asset      string // version and platform of the asset, when chosen
	Method     string // install method, when chosen
	StatusCode int    // for ErrHTTPStatus
	ExitCode   int    // for ErrInstallFailed
	Output     string // captured host CLI output, for ErrInstallFailed
	Err        error  // underlying cause
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())

	var ctx []string
	if e.Extension != "" {
		ctx = append(ctx, "extension "+e.Extension)
	}
	if e.Asset != "" {
		ctx = append(ctx, "asset "+e.Asset)
	}
	if e.Method != "" {
		ctx = append(ctx, "via "+e.Method)
	}
	if len(ctx) > 0 {
		b.WriteString(" (" + strings.Join(ctx, ", ") + ")")
	}

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, ": exit code %d", e.ExitCode)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString("\n" + out)
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, extension string, cause error) *Error {
	return &Error{Kind: kind, Extension: extension, Err: cause}
}

// withContext fills in missing context on a *Error anywhere in err's chain.
// Errors that are not *Error are returned unchanged.
func withContext(err error, extension, asset, method string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	if e.Extension == "" {
		e.Extension = extension
	}
	if e.Asset == "" {
		e.Asset = asset
	}
	if e.Method == "" {
		e.Method = method
	}
	return err
}

// KindOf returns the sentinel kind of err, or nil if err did not come from
// the core.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
