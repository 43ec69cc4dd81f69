package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("error: %s", err)
	}
}

func assertDataEqual(t *testing.T, exp, got []byte) {
	t.Helper()
	if string(exp) != string(got) {
		t.Fatalf("expected %q, got %q", exp, got)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	assertNoError(t, WriteFileAtomic(path, []byte("first")))
	d, err := os.ReadFile(path)
	assertNoError(t, err)
	assertDataEqual(t, []byte("first"), d)

	// over-writes existing content
	assertNoError(t, WriteFileAtomic(path, []byte("second")))
	d, err = os.ReadFile(path)
	assertNoError(t, err)
	assertDataEqual(t, []byte("second"), d)

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	assertNoError(t, err)
	if len(entries) != 1 {
		t.Fatalf("expected only the destination file in dir, got %d entries", len(entries))
	}
}

func TestWriteFileAtomicInvalid(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope")+string(os.PathSeparator), []byte("x"))
	if err == nil {
		t.Fatal("expected error for path with no file name")
	}
	err = WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "dir", "f.txt"), []byte("x"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestCompressExt(t *testing.T) {
	cases := map[string]string{
		"a.json":    "",
		"a.json.gz": ".gz",
		"a.toml.br": ".br",
		"a.ZST":     ".zst",
		"a.gzip":    "",
	}
	for path, want := range cases {
		if got := CompressExt(path); got != want {
			t.Fatalf("CompressExt(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestCompressedRoundTrip(t *testing.T) {
	data := []byte(strings.Repeat("compress me\n", 200))
	for _, ext := range []string{".gz", ".zst", ".br"} {
		path := filepath.Join(t.TempDir(), "data.bin"+ext)
		assertNoError(t, WriteFileAtomic(path, data))

		// the bytes on disk are compressed, not the payload
		raw, err := os.ReadFile(path)
		assertNoError(t, err)
		if len(raw) >= len(data) {
			t.Fatalf("%s: expected file smaller than payload, got %d >= %d", ext, len(raw), len(data))
		}

		got, err := ReadFileMaybeCompressed(path)
		assertNoError(t, err)
		assertDataEqual(t, data, got)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if PathExists(path) || FileExists(path) {
		t.Fatal("expected missing path to not exist")
	}
	assertNoError(t, os.WriteFile(path, []byte("x"), 0644))
	if !PathExists(path) || !FileExists(path) {
		t.Fatal("expected file to exist")
	}
	if !DirExists(dir) || DirExists(path) {
		t.Fatal("DirExists confused a file with a directory")
	}
}
