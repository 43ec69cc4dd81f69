package prefstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"prefstore/fsutil"
	"prefstore/log"
)

// Options configures a Store. The zero value is a valid default.
type Options struct {
	// Verbose enables diagnostic logging of no-op mutations, recovered
	// corrupt files and background write failures.
	Verbose bool
	// Format overrides the serialization picked from the path extension.
	Format Format
}

// Store is an in-memory mapping of string keys to typed values,
// synchronized with a single backing file. Reads and writes are
// synchronous; every mutation schedules a re-serialization of the whole
// map to disk on a background goroutine (see SetValue).
type Store struct {
	path    string
	format  Format
	verbose bool

	mu sync.Mutex
	// nil means not loaded; non-nil means loaded (possibly empty)
	entries map[string]Value
	closed  bool

	wr *writer
}

// New creates a Store backed by the file at path. It does not touch the
// disk; nothing is read or created until Load.
//
// The path fixes the on-disk format: a .toml extension selects TOML,
// anything else JSON (override with Options.Format), and a trailing
// .gz/.zst/.br makes the file transparently compressed, e.g.
// "prefs.toml.gz".
func New(path string, opts *Options) *Store {
	if opts == nil {
		opts = &Options{}
	}
	return &Store{
		path:    path,
		format:  formatForPath(path, opts.Format),
		verbose: opts.Verbose,
		wr:      newWriter(),
	}
}

// NewInDir creates a Store backed by the file name inside dir. It
// creates dir if needed and verifies it is writable, failing fast with
// ErrInvalidFilePath so a bad location is caught at construction rather
// than at the first Load.
func NewInDir(dir, name string, opts *Options) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFilePath, dir, err)
	}
	probe, err := os.CreateTemp(dir, ".prefstore-probe-")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFilePath, dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return New(filepath.Join(dir, name), opts), nil
}

func formatForPath(path string, f Format) Format {
	if f != FormatAuto {
		return f
	}
	p := strings.TrimSuffix(path, fsutil.CompressExt(path))
	if strings.EqualFold(filepath.Ext(p), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// Path returns the backing file path, fixed at construction.
func (s *Store) Path() string {
	return s.path
}

// Loaded reports whether the in-memory map has been initialized from
// the backing file.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries != nil
}

// Load initializes the in-memory map from the backing file. If the file
// is missing or doesn't parse, it is replaced with an empty one and the
// store starts empty. Returns whether the store ended up loaded; false
// only if the file can't be created at the path, in which case the
// error wraps ErrInvalidFilePath and the store must be discarded.
//
// No-op returning true if already loaded.
func (s *Store) Load() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	if s.entries != nil {
		return true, nil
	}
	entries, err := s.readBackingFile()
	if err == nil {
		s.entries = entries
		return true, nil
	}
	if fsutil.FileExists(s.path) {
		// exists but doesn't parse, start over with an empty file
		s.logf("prefstore: replacing unparsable file %q: %v\n", s.path, err)
	}
	if err := s.writeBackingFile(map[string]Value{}); err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrInvalidFilePath, s.path, err)
	}
	s.entries = map[string]Value{}
	return true, nil
}

// LoadAsync is Load performed on the background goroutine, queued after
// any pending writes. onDone is invoked exactly once per call, on that
// goroutine, after the in-memory state has been updated; it also fires
// (with loaded == true) when the store was already loaded, and with
// ErrClosed when the store was closed.
func (s *Store) LoadAsync(onDone func(loaded bool, err error)) {
	accepted := s.wr.enqueue(false, func() {
		loaded, err := s.Load()
		if onDone != nil {
			onDone(loaded, err)
		}
	})
	if !accepted && onDone != nil {
		onDone(false, ErrClosed)
	}
}

// Unload drops the in-memory map and releases its memory. The backing
// file is untouched; the store is unusable until the next Load.
func (s *Store) Unload() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

// UnloadAsync queues an Unload behind any pending writes, so state that
// was already scheduled still reaches the disk first. onDone, if not
// nil, is invoked once the store is unloaded.
func (s *Store) UnloadAsync(onDone func()) {
	accepted := s.wr.enqueue(false, func() {
		s.Unload()
		if onDone != nil {
			onDone()
		}
	})
	if !accepted {
		// nothing queued on a closed store, unload is immediate
		s.Unload()
		if onDone != nil {
			onDone()
		}
	}
}

// Delete removes the backing file and clears the in-memory state.
// Writes that are queued but not yet started are cancelled; a write
// that is already in flight is not interrupted, so the on-disk state
// afterwards is undefined until the next Load. The in-memory state is
// cleared even if removing the file fails, in which case the removal
// error is returned.
func (s *Store) Delete() error {
	s.wr.cancelPending()
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
	if err := os.Remove(s.path); err != nil {
		return err
	}
	s.logf("prefstore: deleted %q\n", s.path)
	return nil
}

// SetValue stores v under key and schedules a write-through of the
// whole map to the backing file. The new value is visible to GetValue
// immediately; only the disk write is asynchronous. A zero Value
// removes the key.
//
// No-op if the store is not loaded.
func (s *Store) SetValue(key string, v Value) {
	s.mu.Lock()
	if s.entries == nil {
		s.mu.Unlock()
		s.logf("prefstore: SetValue(%q) ignored, %q is not loaded\n", key, s.path)
		return
	}
	if v.IsZero() {
		delete(s.entries, key)
	} else {
		s.entries[key] = v
	}
	s.mu.Unlock()
	s.scheduleWrite()
}

// Remove deletes key from the store and schedules a write-through.
func (s *Store) Remove(key string) {
	s.SetValue(key, Value{})
}

// GetValue returns the in-memory value for key. It never touches the
// disk; the backing file is only a source of truth at Load time.
// Returns false if the store is not loaded or the key is absent.
func (s *Store) GetValue(key string) (Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		return Value{}, false
	}
	v, ok := s.entries[key]
	return v, ok
}

// Flush blocks until all queued background work has finished. After
// Flush returns, everything set so far is on disk.
func (s *Store) Flush() {
	s.wr.wait()
}

// Close drains pending writes and stops the background goroutine. The
// store is unloaded and unusable afterwards; Load returns ErrClosed.
func (s *Store) Close() {
	s.wr.close()
	s.wr.wait()
	s.mu.Lock()
	s.entries = nil
	s.closed = true
	s.mu.Unlock()
}

// scheduleWrite enqueues a full-state write-through. The job serializes
// whatever the map looks like when it runs, not a snapshot from enqueue
// time: if mutations outpace the disk, intermediate states are skipped
// and the last state wins.
func (s *Store) scheduleWrite() {
	s.wr.enqueue(true, func() {
		s.mu.Lock()
		if s.entries == nil {
			s.mu.Unlock()
			return
		}
		snap := make(map[string]Value, len(s.entries))
		for k, v := range s.entries {
			snap[k] = v
		}
		s.mu.Unlock()

		if err := s.writeBackingFile(snap); err != nil {
			// not retried, the next mutation will try again
			log.Errorf("prefstore: writing %q failed: %v", s.path, err)
		}
	})
}

func (s *Store) readBackingFile() (map[string]Value, error) {
	d, err := fsutil.ReadFileMaybeCompressed(s.path)
	if err != nil {
		return nil, err
	}
	return decodeEntries(d, s.format)
}

func (s *Store) writeBackingFile(entries map[string]Value) error {
	d, err := encodeEntries(entries, s.format)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(s.path, d)
}

func (s *Store) logf(format string, args ...any) {
	if s.verbose {
		log.Logf(format, args...)
	}
}
