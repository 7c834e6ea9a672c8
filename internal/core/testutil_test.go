package core

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"testing"
)

// buildVSIX returns a zip archive holding files (name -> content).
func buildVSIX(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func simpleVSIX(t *testing.T, version string) []byte {
	return buildVSIX(t, map[string]string{
		"extension.vsixmanifest": "<PackageManifest/>",
		"extension/package.json": `{"name":"demo","version":"` + version + `"}`,
		"extension/out/main.js":  "module.exports = {}",
		"extension/README.md":    "# demo " + version,
		"[Content_Types].xml":    "<Types/>",
	})
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// fakeMarketplace serves canned assets and payloads.
type fakeMarketplace struct {
	assets   []AssetDescriptor
	payload  []byte
	encoding string
	fetchErr error
	fetches  int

	extensions []Extension
	readme     string
}

func (f *fakeMarketplace) ResolveAssets(_ context.Context, id string) ([]AssetDescriptor, error) {
	if len(f.assets) == 0 {
		return nil, newError(ErrExtensionNotFound, id, nil)
	}
	return f.assets, nil
}

func (f *fakeMarketplace) Fetch(_ context.Context, _ AssetDescriptor) (*Payload, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return &Payload{
		Body:            io.NopCloser(bytes.NewReader(f.payload)),
		ContentEncoding: f.encoding,
		ContentLength:   int64(len(f.payload)),
	}, nil
}

func (f *fakeMarketplace) Search(_ context.Context, _ string) (*SearchResult, error) {
	exts := append([]Extension(nil), f.extensions...)
	return &SearchResult{Extensions: exts, TotalCount: len(exts)}, nil
}

func (f *fakeMarketplace) Extension(_ context.Context, id string) (*Extension, error) {
	for i := range f.extensions {
		if f.extensions[i].ID == id {
			return &f.extensions[i], nil
		}
	}
	return nil, newError(ErrExtensionNotFound, id, nil)
}

func (f *fakeMarketplace) Details(_ context.Context, _ string) (string, error) {
	return f.readme, nil
}

// fakeRunner records invocations instead of spawning processes.
type fakeRunner struct {
	calls  [][]string
	result RunResult
	err    error
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (RunResult, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.result, r.err
}
