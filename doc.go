// Package prefstore is a small local key-value persistence helper: an
// in-memory map of string keys to typed scalar values kept in sync with
// a single file on disk. It is meant for preference-style storage of
// small data, not for large datasets or multi-process access.
//
// # Model
//
// A Store is constructed against a fixed file path and starts unloaded.
// Load reads the backing file into memory (creating an empty file if
// there is none); from then on reads and writes are synchronous and
// purely in-memory, and every mutation schedules a re-serialization of
// the whole map to disk on a single background goroutine. Writes are
// therefore never interleaved, but a state that was set right before a
// crash may not have reached the disk yet.
//
// # Basic Usage
//
//	s := prefstore.New("prefs.json", nil)
//	if ok, err := s.Load(); !ok {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	s.SetInt("count", 10)
//	n, _ := s.Int("count") // 10, immediately
//
//	s.Flush() // wait for the background write, e.g. before exiting
//
// # File formats
//
// The path extension picks the serialization: .toml stores native TOML
// values, everything else a typed JSON encoding. A trailing .gz, .zst
// or .br compresses the file transparently. Both formats round-trip
// strings, 64-bit ints, floats, booleans, timestamps and byte blobs
// while preserving the type on read.
//
// # Unloaded stores
//
// Mutations on an unloaded store are silent no-ops and reads return
// nothing; this is deliberate, so a store whose Load failed can be
// carried around safely until it is discarded.
package prefstore
