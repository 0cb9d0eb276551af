package zon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON and Value. Every external consumer (the CLI, the
// benchmark runner, the degenerate root encoding) goes through here.
// Numbers are decoded via json.Number so the int/float split survives:
// "2" becomes an int, "2.0" a float.

// FromJSON converts JSON bytes to a Value.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("zon: json parse: %w", err)
	}
	return fromJSONValue(v)
}

func fromJSONValue(v interface{}) (*Value, error) {
	if v == nil {
		return Null(), nil
	}

	switch val := v.(type) {
	case bool:
		return Bool(val), nil

	case json.Number:
		s := val.String()
		if !strings.ContainsAny(s, ".eE") {
			if n, err := val.Int64(); err == nil {
				return Int(n), nil
			}
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("zon: bad number %q: %w", s, err)
		}
		return Float(f), nil

	case string:
		return Str(val), nil

	case []interface{}:
		items := make([]*Value, 0, len(val))
		for i, elem := range val {
			gv, err := fromJSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			items = append(items, gv)
		}
		return List(items...), nil

	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		entries := make([]MapEntry, 0, len(val))
		for _, k := range keys {
			gv, err := fromJSONValue(val[k])
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			entries = append(entries, MapEntry{Key: k, Value: gv})
		}
		return Map(entries...), nil

	default:
		return nil, fmt.Errorf("zon: unsupported JSON type %T", v)
	}
}

// ToJSON converts a Value to compact JSON bytes. Keys are sorted for
// deterministic output. Integral floats render with an explicit .0 so the
// int/float split survives a JSON round trip through FromJSON.
func ToJSON(v *Value) ([]byte, error) {
	var b bytes.Buffer
	if err := writeJSON(&b, v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func writeJSON(b *bytes.Buffer, v *Value) error {
	if v.IsNull() {
		b.WriteString("null")
		return nil
	}

	switch v.typ {
	case TypeBool:
		b.WriteString(strconv.FormatBool(v.boolVal))

	case TypeInt:
		b.WriteString(formatInt(v.intVal))

	case TypeFloat:
		if math.IsNaN(v.floatVal) || math.IsInf(v.floatVal, 0) {
			return fmt.Errorf("zon: NaN/Infinity not representable in JSON")
		}
		b.WriteString(formatFloat(v.floatVal))

	case TypeStr:
		b.WriteString(jsonQuote(v.strVal))

	case TypeList:
		b.WriteByte('[')
		for i, elem := range v.listVal {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(b, elem); err != nil {
				return err
			}
		}
		b.WriteByte(']')

	case TypeMap:
		keys := make([]string, 0, len(v.mapVal))
		for _, e := range v.mapVal {
			keys = append(keys, e.Key)
		}
		sort.Strings(keys)

		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(jsonQuote(k))
			b.WriteByte(':')
			if err := writeJSON(b, v.Get(k)); err != nil {
				return err
			}
		}
		b.WriteByte('}')

	default:
		return fmt.Errorf("zon: unsupported value type %s", v.typ)
	}

	return nil
}
