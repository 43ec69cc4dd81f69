package prefstore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/pretty"
)

// Format selects the serialization of the backing file.
type Format int

const (
	// FormatAuto picks TOML for a .toml path (compression extension
	// stripped first), JSON for everything else.
	FormatAuto Format = iota
	FormatJSON
	FormatTOML
)

// jsonEntry is the on-disk shape of a single value in JSON format.
// The explicit type tag is what lets us tell an int from a float on read.
type jsonEntry struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func encodeEntries(entries map[string]Value, format Format) ([]byte, error) {
	if format == FormatTOML {
		return encodeTOML(entries)
	}
	return encodeJSON(entries)
}

func decodeEntries(d []byte, format Format) (map[string]Value, error) {
	if format == FormatTOML {
		return decodeTOML(d)
	}
	return decodeJSON(d)
}

func encodeJSON(entries map[string]Value) ([]byte, error) {
	m := make(map[string]jsonEntry, len(entries))
	for k, v := range entries {
		var raw []byte
		var err error
		switch v.kind {
		case KindString:
			raw, err = json.Marshal(v.s)
		case KindInt:
			// as a string so values past 2^53 survive the round-trip
			raw, err = json.Marshal(strconv.FormatInt(v.i, 10))
		case KindFloat:
			raw, err = json.Marshal(v.f)
		case KindBool:
			raw, err = json.Marshal(v.b)
		case KindTime:
			raw, err = json.Marshal(v.t.UTC().Format(time.RFC3339Nano))
		case KindBytes:
			raw, err = json.Marshal(base64.StdEncoding.EncodeToString(v.d))
		default:
			err = fmt.Errorf("key %q has invalid value", k)
		}
		if err != nil {
			return nil, err
		}
		m[k] = jsonEntry{Type: v.kind.String(), Value: raw}
	}
	d, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	// the file is meant to be read by humans, keep it readable
	return pretty.Pretty(d), nil
}

func decodeJSON(d []byte) (map[string]Value, error) {
	var m map[string]jsonEntry
	if err := json.Unmarshal(d, &m); err != nil {
		return nil, err
	}
	entries := make(map[string]Value, len(m))
	for k, e := range m {
		v, err := decodeJSONEntry(e)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		entries[k] = v
	}
	return entries, nil
}

func decodeJSONEntry(e jsonEntry) (Value, error) {
	switch e.Type {
	case "string":
		var s string
		if err := json.Unmarshal(e.Value, &s); err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case "int":
		var s string
		if err := json.Unmarshal(e.Value, &s); err != nil {
			return Value{}, err
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return IntValue(i), nil
	case "float":
		var f float64
		if err := json.Unmarshal(e.Value, &f); err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	case "bool":
		var b bool
		if err := json.Unmarshal(e.Value, &b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case "time":
		var s string
		if err := json.Unmarshal(e.Value, &s); err != nil {
			return Value{}, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return Value{}, err
		}
		return TimeValue(t), nil
	case "bytes":
		var s string
		if err := json.Unmarshal(e.Value, &s); err != nil {
			return Value{}, err
		}
		d, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return Value{}, err
		}
		return BytesValue(d), nil
	}
	return Value{}, fmt.Errorf("unknown value type %q", e.Type)
}

// TOML carries string/int/float/bool/datetime natively so those need no
// type tag. Blobs have no native TOML type and are written as an inline
// table: key = { encoding = "base64", data = "..." }

func encodeTOML(entries map[string]Value) ([]byte, error) {
	m := make(map[string]any, len(entries))
	for k, v := range entries {
		switch v.kind {
		case KindString:
			m[k] = v.s
		case KindInt:
			m[k] = v.i
		case KindFloat:
			m[k] = v.f
		case KindBool:
			m[k] = v.b
		case KindTime:
			m[k] = v.t.UTC()
		case KindBytes:
			m[k] = map[string]string{
				"encoding": "base64",
				"data":     base64.StdEncoding.EncodeToString(v.d),
			}
		default:
			return nil, fmt.Errorf("key %q has invalid value", k)
		}
	}
	return toml.Marshal(m)
}

func decodeTOML(d []byte) (map[string]Value, error) {
	var m map[string]any
	if err := toml.Unmarshal(d, &m); err != nil {
		return nil, err
	}
	entries := make(map[string]Value, len(m))
	for k, raw := range m {
		switch v := raw.(type) {
		case string:
			entries[k] = StringValue(v)
		case int64:
			entries[k] = IntValue(v)
		case float64:
			entries[k] = FloatValue(v)
		case bool:
			entries[k] = BoolValue(v)
		case time.Time:
			entries[k] = TimeValue(v)
		case map[string]any:
			b, err := decodeTOMLBlob(v)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			entries[k] = b
		default:
			return nil, fmt.Errorf("key %q: unsupported value of type %T", k, raw)
		}
	}
	return entries, nil
}

func decodeTOMLBlob(m map[string]any) (Value, error) {
	enc, _ := m["encoding"].(string)
	if enc != "base64" {
		return Value{}, fmt.Errorf("unknown blob encoding %q", enc)
	}
	s, ok := m["data"].(string)
	if !ok {
		return Value{}, fmt.Errorf("blob table has no data string")
	}
	d, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Value{}, err
	}
	return BytesValue(d), nil
}
