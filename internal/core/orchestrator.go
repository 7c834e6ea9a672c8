package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/barysiuk/vsix/internal/core/host"
)

// DefaultSearchLimit is the number of search results shown by default.
const DefaultSearchLimit = 20

// Orchestrator wires the marketplace, stager, strategy selector and
// executor together for the search, install, download and info use cases.
type Orchestrator struct {
	Marketplace Marketplace
	Stager      *Stager
	Selector    *Selector
	Executor    *Executor
	Host        HostArchitecture
}

// NewOrchestrator creates an Orchestrator for the running host.
func NewOrchestrator(mp Marketplace, preferCLI bool) (*Orchestrator, error) {
	h, err := ResolveHost()
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		Marketplace: mp,
		Stager:      NewStager(mp),
		Selector:    NewSelector(preferCLI),
		Executor:    NewExecutor(),
		Host:        h,
	}, nil
}

// SearchOptions configures a search.
type SearchOptions struct {
	Sort    SortField
	Reverse bool
	Limit   int // <= 0 = DefaultSearchLimit
}

// Search queries the marketplace and returns sorted, limited results.
func (o *Orchestrator) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	result, err := o.Marketplace.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	SortExtensions(result.Extensions, opts.Sort, opts.Reverse)

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if len(result.Extensions) > limit {
		result.Extensions = result.Extensions[:limit]
	}
	return result, nil
}

// InstallOptions configures an installation.
type InstallOptions struct {
	Platform Platform // explicit platform tag; empty = running host
}

// Install resolves, stages and installs extensionID into target. The staged
// package is released on every path.
func (o *Orchestrator) Install(ctx context.Context, extensionID string, target host.Host, opts InstallOptions) (*InstallOutcome, error) {
	asset, err := o.resolveAsset(ctx, extensionID, opts.Platform)
	if err != nil {
		return nil, err
	}

	pkg, err := o.Stager.Stage(ctx, asset)
	if err != nil {
		return nil, err
	}
	defer pkg.Release()

	method, err := o.Selector.SelectStrategy(target)
	if err != nil {
		return nil, withContext(newError(ErrInstallFailed, extensionID, err), extensionID, asset.String(), "")
	}

	outcome, err := o.Executor.Install(ctx, pkg, method)
	if err != nil {
		return nil, err
	}
	outcome.Target = target.DisplayName()

	slog.Debug("installed", "extension", extensionID, "asset", asset.String(),
		"target", target.Name(), "method", method.String(), "location", outcome.Location)
	return outcome, nil
}

// DownloadResult describes a downloaded package.
type DownloadResult struct {
	Asset AssetDescriptor
	Path  string
	Size  int64
}

// Download resolves and stages extensionID, then copies the validated
// package into outDir.
func (o *Orchestrator) Download(ctx context.Context, extensionID, outDir string, opts InstallOptions) (*DownloadResult, error) {
	asset, err := o.resolveAsset(ctx, extensionID, opts.Platform)
	if err != nil {
		return nil, err
	}

	pkg, err := o.Stager.Stage(ctx, asset)
	if err != nil {
		return nil, err
	}
	defer pkg.Release()

	dest := filepath.Join(outDir, asset.FileName())
	if err := copyFileAtomic(pkg.Path, dest); err != nil {
		return nil, withContext(fsError(ErrExtractionFailed, err), extensionID, asset.String(), "")
	}
	return &DownloadResult{Asset: asset, Path: dest, Size: pkg.Size}, nil
}

// Info returns an extension's listing and its README.
func (o *Orchestrator) Info(ctx context.Context, extensionID string) (*Extension, string, error) {
	ext, err := o.Marketplace.Extension(ctx, extensionID)
	if err != nil {
		return nil, "", err
	}
	readme, err := o.Marketplace.Details(ctx, extensionID)
	if err != nil {
		return nil, "", err
	}
	return ext, readme, nil
}

func (o *Orchestrator) resolveAsset(ctx context.Context, extensionID string, platform Platform) (AssetDescriptor, error) {
	if _, _, err := ParseExtensionID(extensionID); err != nil {
		return AssetDescriptor{}, err
	}

	candidates, err := o.Marketplace.ResolveAssets(ctx, extensionID)
	if err != nil {
		return AssetDescriptor{}, err
	}

	if platform != "" {
		return SelectAssetForPlatform(candidates, platform)
	}
	return SelectBestAsset(candidates, o.Host)
}

// copyFileAtomic copies src to dst through a temp file in dst's directory.
func copyFileAtomic(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmpPath := dst + ".tmp"
	out, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
