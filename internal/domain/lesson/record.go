package lesson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one lesson entry (immutable value object).
// Keys keep the order they had in the source object.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord creates a Record from alternating key/value pairs.
// A repeated key keeps its first position and its last value.
func NewRecord(pairs ...string) (Record, error) {
	if len(pairs)%2 != 0 {
		return Record{}, fmt.Errorf("odd number of key/value arguments: %d", len(pairs))
	}
	r := Record{values: make(map[string]string, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		r.set(pairs[i], pairs[i+1])
	}
	return r, nil
}

// Get returns the value of a field, or "" if the record lacks it.
func (r Record) Get(f Field) string { return r.values[string(f)] }

// Has reports whether the record carries the field.
func (r Record) Has(f Field) bool {
	_, ok := r.values[string(f)]
	return ok
}

// Keys returns the record keys in source order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r Record) Len() int { return len(r.keys) }

func (r *Record) set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// UnmarshalJSON decodes a flat JSON object, preserving key order.
// null becomes "", numbers and booleans keep their literal text; nested values are rejected.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read record: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record must be a JSON object")
	}

	rec := Record{values: make(map[string]string)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read record key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record key must be a string")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("read value of %q: %w", key, err)
		}
		value, err := scalarText(raw)
		if err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		rec.set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("close record: %w", err)
	}

	*r = rec
	return nil
}

// MarshalJSON encodes the record as a JSON object in source key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key: %w", err)
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value: %w", err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func scalarText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty value")
	}
	switch trimmed[0] {
	case 'n':
		return "", nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("decode string: %w", err)
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("nested values are not supported")
	default:
		return string(trimmed), nil
	}
}
