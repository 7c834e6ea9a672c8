package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// RunResult is the outcome of a finished process.
type RunResult struct {
	ExitCode int
	Output   []byte // combined stdout and stderr
}

// Runner starts host CLI processes. Run returns an error only when the
// process could not be run at all; a non-zero exit is reported in RunResult.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (RunResult, error)
}

// ExecRunner runs processes with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (RunResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if ctx.Err() != nil {
		return RunResult{}, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return RunResult{ExitCode: exitErr.ExitCode(), Output: out.Bytes()}, nil
	}
	if err != nil {
		return RunResult{}, err
	}
	return RunResult{Output: out.Bytes()}, nil
}

// Executor carries out an InstallationMethod.
type Executor struct {
	Runner Runner
	Now    func() time.Time
}

// NewExecutor creates an Executor that spawns real processes.
func NewExecutor() *Executor {
	return &Executor{Runner: ExecRunner{}, Now: time.Now}
}

// Install installs the staged package using method. Both methods produce the
// same outcome shape; failures carry the method in their context.
func (e *Executor) Install(ctx context.Context, pkg *StagedPackage, method InstallationMethod) (*InstallOutcome, error) {
	outcome, err := e.install(ctx, pkg, method)
	if err != nil {
		return nil, withContext(err, pkg.Asset.ExtensionID, pkg.Asset.String(), method.String())
	}
	return outcome, nil
}

func (e *Executor) install(ctx context.Context, pkg *StagedPackage, method InstallationMethod) (*InstallOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch m := method.(type) {
	case HostCLI:
		return e.installWithCLI(ctx, pkg, m)
	case DirectExtraction:
		return e.installByExtraction(ctx, pkg, m)
	default:
		return nil, fmt.Errorf("unknown installation method %T", method)
	}
}

func (e *Executor) installWithCLI(ctx context.Context, pkg *StagedPackage, m HostCLI) (*InstallOutcome, error) {
	runner := e.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	slog.Debug("running host cli", "cli", m.Path, "package", pkg.Path)
	res, err := runner.Run(ctx, m.Path, "--install-extension", pkg.Path, "--force")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, newError(ErrInstallFailed, "", err)
	}
	if res.ExitCode != 0 {
		return nil, &Error{Kind: ErrInstallFailed, ExitCode: res.ExitCode, Output: string(res.Output)}
	}

	return &InstallOutcome{
		Extension: pkg.Asset.ExtensionID,
		Version:   pkg.Asset.Version,
		Method:    m,
		Location:  m.Path,
	}, nil
}

func (e *Executor) installByExtraction(ctx context.Context, pkg *StagedPackage, m DirectExtraction) (*InstallOutcome, error) {
	index := NewExtensionsIndex(m.Dir)
	hadIndex := index.Exists()

	installDir, err := extractPackage(ctx, pkg, m.Dir)
	if err != nil {
		return nil, err
	}

	if hadIndex {
		now := time.Now
		if e.Now != nil {
			now = e.Now
		}
		// The extension is already on disk; editors rescan on start.
		if err := index.Upsert(pkg.Asset, installDir, now().UnixMilli()); err != nil {
			slog.Warn("could not update extensions index", "path", index.Path(), "error", err)
		}
	}

	return &InstallOutcome{
		Extension: pkg.Asset.ExtensionID,
		Version:   pkg.Asset.Version,
		Method:    m,
		Location:  installDir,
	}, nil
}
