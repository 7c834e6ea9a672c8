package core

import (
	"archive/zip"
	"bufio"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zipMagic  = []byte("PK\x03\x04")
)

// StagedPackage is a validated VSIX on local disk. It owns a private temp
// directory until Release is called.
type StagedPackage struct {
	Asset AssetDescriptor
	Path  string // path to the .vsix file
	Size  int64

	dir string
}

// Release removes the staged file and its temp directory. It is safe to call
// more than once and on a nil package.
func (p *StagedPackage) Release() {
	if p == nil || p.dir == "" {
		return
	}
	if err := os.RemoveAll(p.dir); err != nil {
		slog.Debug("releasing staged package", "dir", p.dir, "error", err)
	}
	p.dir = ""
}

// Stager downloads assets and turns them into StagedPackages.
type Stager struct {
	gateway Gateway
	tempDir string // parent for staging dirs; "" = os.TempDir()
}

// NewStager creates a Stager that fetches through gateway.
func NewStager(gateway Gateway) *Stager {
	return &Stager{gateway: gateway}
}

// Stage fetches the asset, undoes its transfer encoding, validates that the
// result is a zip archive, and stores it in a fresh temp directory. On any
// error, including cancellation, nothing is left on disk.
func (s *Stager) Stage(ctx context.Context, asset AssetDescriptor) (_ *StagedPackage, err error) {
	payload, err := s.gateway.Fetch(ctx, asset)
	if err != nil {
		return nil, withContext(err, asset.ExtensionID, asset.String(), "")
	}
	defer func() { _ = payload.Body.Close() }()

	dir, err := os.MkdirTemp(s.tempDir, "vsix-stage-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging dir: %w", err)
	}
	pkg := &StagedPackage{Asset: asset, Path: filepath.Join(dir, asset.FileName()), dir: dir}
	defer func() {
		if err != nil {
			pkg.Release()
		}
	}()

	declared := payload.ContentEncoding
	if declared == "" {
		declared = asset.ContentEncoding
	}

	body, closeBody, err := decodePayload(&ctxReader{ctx: ctx, r: payload.Body}, declared)
	if err != nil {
		return nil, s.corrupt(asset, err)
	}
	defer closeBody()

	f, err := os.OpenFile(pkg.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("creating staged file: %w", err)
	}
	n, copyErr := io.Copy(f, body)
	closeErr := f.Close()

	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case copyErr != nil:
		if isDecodeError(copyErr) {
			return nil, s.corrupt(asset, copyErr)
		}
		return nil, &Error{Kind: ErrNetwork, Extension: asset.ExtensionID, Asset: asset.String(), Err: copyErr}
	case closeErr != nil:
		return nil, fmt.Errorf("writing staged file: %w", closeErr)
	}
	pkg.Size = n

	if err := validateArchive(pkg.Path); err != nil {
		return nil, s.corrupt(asset, err)
	}

	slog.Debug("staged package", "extension", asset.ExtensionID, "asset", asset.String(),
		"path", pkg.Path, "bytes", n, "encoding", declared)
	return pkg, nil
}

func (s *Stager) corrupt(asset AssetDescriptor, err error) error {
	return &Error{Kind: ErrCorruptPackage, Extension: asset.ExtensionID, Asset: asset.String(), Err: err}
}

// decodePayload applies the declared transfer decoding. When an encoding was
// declared and the decoded stream is still gzip-framed, exactly one extra
// gzip pass is applied; the marketplace has been seen double-compressing
// packages while declaring a single encoding. Undeclared payloads are
// passed through untouched.
func decodePayload(r io.Reader, declared string) (io.Reader, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}

	if declared == "" || declared == "identity" {
		return r, closeAll, nil
	}
	if declared != "gzip" && declared != "x-gzip" {
		return nil, closeAll, fmt.Errorf("unsupported content encoding %q", declared)
	}

	// Some servers declare gzip on already-decoded bodies.
	br := bufio.NewReader(r)
	if !hasPrefix(br, gzipMagic) {
		slog.Debug("declared gzip payload is not gzip-framed, passing through")
		return br, closeAll, nil
	}

	for pass := 1; pass <= 2; pass++ {
		gz, err := gzip.NewReader(br)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("gzip pass %d: %w", pass, err)
		}
		gz.Multistream(false)
		closers = append(closers, gz)
		br = bufio.NewReader(gz)

		if !hasPrefix(br, gzipMagic) {
			break
		}
		if pass == 2 {
			break
		}
		slog.Debug("payload still gzip-framed after declared decoding, applying one more pass")
	}

	return br, closeAll, nil
}

// isDecodeError reports whether err comes from a malformed gzip stream rather
// than from the transport.
func isDecodeError(err error) bool {
	var corrupt flate.CorruptInputError
	return errors.Is(err, gzip.ErrChecksum) ||
		errors.Is(err, gzip.ErrHeader) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &corrupt)
}

func hasPrefix(br *bufio.Reader, magic []byte) bool {
	head, _ := br.Peek(len(magic))
	return bytes.Equal(head, magic)
}

// validateArchive checks the zip magic and that the archive has entries.
func validateArchive(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	head := make([]byte, len(zipMagic))
	_, err = io.ReadFull(f, head)
	_ = f.Close()
	if err != nil || !bytes.Equal(head, zipMagic) {
		return errors.New("payload is not a zip archive")
	}

	// Unsafe entry names are the executor's to reject, with a clearer error.
	r, err := zip.OpenReader(path)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("reading zip archive: %w", err)
	}
	defer func() { _ = r.Close() }()
	if len(r.File) == 0 {
		return errors.New("archive is empty")
	}
	return nil
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
