package prefstore

import (
	"sort"
	"time"
)

// Convenience accessors for the supported kinds. The getters return
// false if the store is not loaded, the key is absent, or the stored
// value has a different kind.

func (s *Store) SetString(key, v string) {
	s.SetValue(key, StringValue(v))
}

func (s *Store) String(key string) (string, bool) {
	v, ok := s.GetValue(key)
	if !ok {
		return "", false
	}
	return v.String()
}

func (s *Store) SetInt(key string, v int64) {
	s.SetValue(key, IntValue(v))
}

func (s *Store) Int(key string) (int64, bool) {
	v, ok := s.GetValue(key)
	if !ok {
		return 0, false
	}
	return v.Int()
}

func (s *Store) SetFloat(key string, v float64) {
	s.SetValue(key, FloatValue(v))
}

func (s *Store) Float(key string) (float64, bool) {
	v, ok := s.GetValue(key)
	if !ok {
		return 0, false
	}
	return v.Float()
}

func (s *Store) SetBool(key string, v bool) {
	s.SetValue(key, BoolValue(v))
}

func (s *Store) Bool(key string) (bool, bool) {
	v, ok := s.GetValue(key)
	if !ok {
		return false, false
	}
	return v.Bool()
}

func (s *Store) SetTime(key string, v time.Time) {
	s.SetValue(key, TimeValue(v))
}

func (s *Store) Time(key string) (time.Time, bool) {
	v, ok := s.GetValue(key)
	if !ok {
		return time.Time{}, false
	}
	return v.Time()
}

func (s *Store) SetBytes(key string, v []byte) {
	s.SetValue(key, BytesValue(v))
}

func (s *Store) Bytes(key string) ([]byte, bool) {
	v, ok := s.GetValue(key)
	if !ok {
		return nil, false
	}
	return v.Bytes()
}

// Keys returns all keys in sorted order, nil if the store is not loaded.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		return nil
	}
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries, 0 if the store is not loaded.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
