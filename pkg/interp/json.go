package interp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
)

// MarshalJSON encodes the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(k, "")
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshal(jsonable(o.vals[k]), "")
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the array elements.
func (a *Array) MarshalJSON() ([]byte, error) {
	elems := make([]any, len(a.Elems))
	for i, e := range a.Elems {
		elems[i] = jsonable(e)
	}
	return marshal(elems, "")
}

// jsonable maps values JSON cannot represent: non-finite numbers become
// null and functions become their string form.
func jsonable(v Value) any {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
	case *Function, *NativeFunc:
		return ToString(val)
	}
	return v
}

// ToJSON encodes v as JSON. A non-empty indent produces multi-line output.
func ToJSON(v Value, indent string) (string, error) {
	data, err := marshal(jsonable(v), indent)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// marshal is json.Marshal without HTML escaping, so "<" and "&" in script
// strings print as written.
func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodeJSON reads one JSON document from r into runtime values, keeping
// object keys in document order.
func DecodeJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode json: unexpected data after top-level value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			arr := NewArray()
			for dec.More() {
				elem, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Elems = append(arr.Elems, elem)
			}
			if _, err := dec.Token(); err != nil { // ]
				return nil, err
			}
			return arr, nil
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // }
				return nil, err
			}
			return obj, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return t.Float64()
	case string, bool, nil:
		return t, nil
	}
	return nil, fmt.Errorf("unexpected json token %v", tok)
}

// FromGo converts plain Go data (as produced by encoding/json, yaml or a
// database driver) into runtime values. Map keys are sorted since Go maps
// carry no order.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil, float64, string, bool, *Array, *Object, *Function, *NativeFunc:
		return val, nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case float32:
		return float64(val), nil
	case json.Number:
		return val.Float64()
	case []any:
		arr := &Array{Elems: make([]Value, 0, len(val))}
		for _, e := range val {
			conv, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, conv)
		}
		return arr, nil
	case []string:
		arr := &Array{Elems: make([]Value, len(val))}
		for i, s := range val {
			arr.Elems[i] = s
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			conv, err := FromGo(val[k])
			if err != nil {
				return nil, err
			}
			obj.Set(k, conv)
		}
		return obj, nil
	}
	return nil, fmt.Errorf("cannot convert %T to a script value", v)
}

// ToGo converts a runtime value into plain Go data. Objects become
// map[string]any, so key order is lost.
func ToGo(v Value) any {
	switch val := v.(type) {
	case *Array:
		out := make([]any, len(val.Elems))
		for i, e := range val.Elems {
			out[i] = ToGo(e)
		}
		return out
	case *Object:
		out := make(map[string]any, val.Len())
		for _, k := range val.keys {
			out[k] = ToGo(val.vals[k])
		}
		return out
	case *Function, *NativeFunc:
		return ToString(val)
	}
	return v
}
