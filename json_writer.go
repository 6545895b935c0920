package tradebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter assembles a JSON object member by member, keeping the
// order members were written in. Its zero value is an empty object.
//
// The first error is kept and every later call is a no-op.
type jsonObjectWriter struct {
	members [][]byte
	err     error
}

func (w *jsonObjectWriter) fail(format string, args ...any) {
	if w.err == nil {
		w.err = fmt.Errorf(format, args...)
	}
}

// Append writes key with the JSON encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.fail("cannot encode %q: %w", key, err)
		return w
	}
	k, _ := json.Marshal(key)
	w.members = append(w.members, append(append(k, ':'), v...))
	return w
}

// Optional is Append, skipped when value is the zero value of its type.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// EmbedFrom writes every member of the JSON encoding of v, which must be an
// object.
func (w *jsonObjectWriter) EmbedFrom(v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.fail("cannot embed %T: %w", v, err)
		return w
	}
	return w.Embed(data)
}

// Embed writes the members of a raw JSON object.
func (w *jsonObjectWriter) Embed(object []byte) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	object = bytes.TrimSpace(object)
	if len(object) < 2 || object[0] != '{' || object[len(object)-1] != '}' {
		w.fail("cannot embed %.20q: not an object", object)
		return w
	}
	if body := bytes.TrimSpace(object[1 : len(object)-1]); len(body) > 0 {
		w.members = append(w.members, body)
	}
	return w
}

func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.Write(bytes.Join(w.members, []byte{','}))
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
