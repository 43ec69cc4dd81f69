// Package fsutil is the small filesystem layer behind a store's backing
// file: atomic whole-file writes (temp file + rename, so a crash never
// leaves a half-written file) and transparent compression picked by the
// file extension.
package fsutil

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// PathExists returns true if path exists
func PathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// FileExists returns true if path exists and is a regular file
func FileExists(path string) bool {
	st, err := os.Lstat(path)
	return err == nil && st.Mode().IsRegular()
}

// DirExists returns true if path exists and is a directory
func DirExists(path string) bool {
	st, err := os.Lstat(path)
	return err == nil && st.IsDir()
}

// CompressExt returns the compression extension of path (".gz", ".zst"
// or ".br") or "" if the path doesn't name a compressed file.
func CompressExt(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gz", ".zst", ".br":
		return ext
	}
	return ""
}

func compressData(ext string, d []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch ext {
	case ".gz":
		w, err = gzip.NewWriterLevel(&buf, gzip.BestCompression)
	case ".zst":
		w, err = zstd.NewWriter(&buf)
	case ".br":
		w = brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	}
	if err != nil {
		return nil, err
	}
	if _, err = w.Write(d); err != nil {
		w.Close()
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressData(ext string, d []byte) ([]byte, error) {
	switch ext {
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(d))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case ".zst":
		r, err := zstd.NewReader(bytes.NewReader(d))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case ".br":
		return io.ReadAll(brotli.NewReader(bytes.NewReader(d)))
	}
	return d, nil
}

// ReadFileMaybeCompressed reads a file, decompressing it if the
// extension says it's compressed.
func ReadFileMaybeCompressed(path string) ([]byte, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decompressData(CompressExt(path), d)
}

// WriteFileAtomic writes d to path so that path either keeps its old
// content or holds all of d, never something in between. The data goes
// to a temp file in the same directory which is synced and then renamed
// over path. If the extension says the file is compressed, d is
// compressed first.
func WriteFileAtomic(path string, d []byte) error {
	if ext := CompressExt(path); ext != "" {
		var err error
		d, err = compressData(ext, d)
		if err != nil {
			return err
		}
	}

	dir, name := filepath.Split(path)
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if name == "" {
		return &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}

	tmp, err := os.CreateTemp(dir, name)
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	// https://www.joeshaw.org/dont-defer-close-on-writable-files/
	_, err = tmp.Write(d)
	if err2 := tmp.Sync(); err == nil {
		err = err2
	}
	if err2 := tmp.Close(); err == nil {
		err = err2
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	// sync the directory so the rename survives a crash
	if fdir, errOpen := os.Open(dir); errOpen == nil {
		_ = fdir.Sync()
		_ = fdir.Close()
	}
	return nil
}
