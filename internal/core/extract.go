package core

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// extensionPrefix is the directory inside a VSIX that holds the extension
// itself; the rest of the archive is packaging metadata.
const extensionPrefix = "extension/"

// extractPackage unpacks pkg into dir/<InstallDirName>, replacing any
// existing install of the same name. Extraction happens in a sibling temp
// directory that is renamed into place, so a failed or cancelled extraction
// never leaves a partial install behind. It returns the install directory.
func extractPackage(ctx context.Context, pkg *StagedPackage, dir string) (_ string, err error) {
	if !validVersion(pkg.Asset.Version) {
		return "", &Error{Kind: ErrExtractionFailed, Extension: pkg.Asset.ExtensionID, Err: fmt.Errorf("invalid version %q", pkg.Asset.Version)}
	}

	r, err := zip.OpenReader(pkg.Path)
	switch {
	case errors.Is(err, zip.ErrInsecurePath):
		_ = r.Close()
		return "", &Error{Kind: ErrExtractionFailed, Err: err}
	case err != nil:
		return "", &Error{Kind: ErrCorruptPackage, Err: fmt.Errorf("opening package: %w", err)}
	}
	defer func() { _ = r.Close() }()

	prefix := ""
	for _, f := range r.File {
		if f.Name == extensionPrefix+"package.json" {
			prefix = extensionPrefix
			break
		}
	}

	// Reject the whole archive before touching the disk.
	for _, f := range r.File {
		if err := checkEntry(f, prefix); err != nil {
			return "", &Error{Kind: ErrExtractionFailed, Err: err}
		}
	}

	createdDir := !dirExists(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fsError(ErrExtractionFailed, fmt.Errorf("creating extensions directory: %w", err))
	}

	tmp, err := os.MkdirTemp(dir, ".vsix-extract-*")
	if err != nil {
		return "", fsError(ErrExtractionFailed, fmt.Errorf("creating temp directory: %w", err))
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(tmp)
			if createdDir {
				cleanupEmptyDir(dir)
			}
		}
	}()

	written := 0
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name, ok := entryName(f, prefix)
		if !ok || name == "." {
			continue
		}
		if escapes(name) {
			return "", &Error{Kind: ErrExtractionFailed, Err: fmt.Errorf("entry %q escapes the install directory", f.Name)}
		}

		if err := extractEntry(ctx, f, filepath.Join(tmp, filepath.FromSlash(name))); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fsError(ErrExtractionFailed, fmt.Errorf("extracting %s: %w", f.Name, err))
		}
		written++
	}
	if written == 0 {
		return "", &Error{Kind: ErrExtractionFailed, Err: errors.New("package contains no extension files")}
	}

	final := filepath.Join(dir, pkg.Asset.InstallDirName())
	if filepath.Dir(final) != filepath.Clean(dir) {
		return "", &Error{Kind: ErrExtractionFailed, Err: fmt.Errorf("install directory %q is outside %s", pkg.Asset.InstallDirName(), dir)}
	}
	if err := os.RemoveAll(final); err != nil {
		return "", fsError(ErrExtractionFailed, fmt.Errorf("removing previous install: %w", err))
	}
	if err := os.Rename(tmp, final); err != nil {
		return "", fsError(ErrExtractionFailed, fmt.Errorf("moving extension into place: %w", err))
	}

	slog.Debug("extracted package", "extension", pkg.Asset.ExtensionID, "dir", final, "entries", written)
	return final, nil
}

// entryName returns the cleaned, slash-separated path of f relative to the
// install directory. ok is false for entries outside prefix.
func entryName(f *zip.File, prefix string) (name string, ok bool) {
	name = strings.ReplaceAll(f.Name, `\`, "/")
	if prefix != "" {
		if !strings.HasPrefix(name, prefix) {
			return "", false
		}
		name = strings.TrimPrefix(name, prefix)
	}
	if name == "" {
		return "", false
	}
	return path.Clean(name), true
}

// checkEntry rejects entries that could land outside the install directory.
// Names are checked after the prefix is stripped, since that is the path
// actually written.
func checkEntry(f *zip.File, prefix string) error {
	raw := strings.ReplaceAll(f.Name, `\`, "/")
	switch {
	case f.Mode()&fs.ModeSymlink != 0:
		return fmt.Errorf("entry %q is a symlink", f.Name)
	case path.IsAbs(raw), filepath.IsAbs(f.Name), filepath.VolumeName(f.Name) != "",
		len(raw) >= 2 && raw[1] == ':':
		return fmt.Errorf("entry %q has an absolute path", f.Name)
	}

	names := []string{path.Clean(raw)}
	if name, ok := entryName(f, prefix); ok {
		names = append(names, name)
	}
	for _, name := range names {
		if escapes(name) {
			return fmt.Errorf("entry %q escapes the install directory", f.Name)
		}
	}
	return nil
}

func escapes(name string) bool {
	return name == ".." || strings.HasPrefix(name, "../") || path.IsAbs(name)
}

func extractEntry(ctx context.Context, f *zip.File, dest string) error {
	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	perm := f.Mode().Perm() | 0o600
	if f.Mode().Perm() == 0 {
		perm = 0o644
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, &ctxReader{ctx: ctx, r: src}); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
