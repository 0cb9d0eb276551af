package zon

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Canonical Scalar Formatting
// ============================================================

// formatInt returns the canonical integer representation.
func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// formatFloat returns the canonical float representation: shortest
// round-trip form, with an explicit .0 kept on integral floats so the
// decoder reads them back as floats, not integers.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !math.IsNaN(f) && !math.IsInf(f, 0) && !strings.ContainsAny(s, ".eE") {
		// Integral and finite: 2 → 2.0
		s += ".0"
	}
	return s
}

// formatBool returns the canonical boolean representation.
func formatBool(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

// jsonQuote returns s as a JSON string literal.
func jsonQuote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshal of a string cannot fail; keep the raw text if it ever does.
		return s
	}
	return string(b)
}

// ============================================================
// Cell Formatting
// ============================================================

// formatCell renders any value to its textual cell form, applying the
// CSV-quoting and type-protection rules that keep the format unambiguous.
// Absent table cells are rendered by the table writer, not here; an explicit
// null renders as the null literal.
func formatCell(v *Value) string {
	if v.IsNull() {
		return "null"
	}

	switch v.typ {
	case TypeBool:
		return formatBool(v.boolVal)

	case TypeInt:
		return formatInt(v.intVal)

	case TypeFloat:
		return formatFloat(v.floatVal)

	case TypeList, TypeMap:
		// Nested node grammar. The rendered node may contain commas, so the
		// whole node gets a CSV quoting pass.
		node := formatNode(v)
		if needsCSVQuotes(node) {
			return csvQuote(node)
		}
		return node
	}

	s := v.strVal

	// Strings the cell parser would retype or reshape carry an inner JSON
	// layer; the decoder sees the surviving quotes and keeps them strings.
	if needsTypeProtection(s) {
		return csvQuote(jsonQuote(s))
	}
	if needsCSVQuotes(s) {
		return csvQuote(s)
	}
	return s
}

// ============================================================
// Nested Node Grammar
// ============================================================
//
// Compound cell values render as {k1:v1,k2:v2} and [v1,v2]. This is the one
// canonical grammar for nested values; the decoder accepts nothing else.
// Keys are sorted for determinism. Keys and strings are JSON-quoted whenever
// the bare form would collide with the node separators or be retyped.

// formatNode renders a value using the nested node grammar.
func formatNode(v *Value) string {
	if v.IsNull() {
		return "null"
	}

	switch v.typ {
	case TypeBool:
		return formatBool(v.boolVal)

	case TypeInt:
		return formatInt(v.intVal)

	case TypeFloat:
		return formatFloat(v.floatVal)

	case TypeMap:
		keys := make([]string, 0, len(v.mapVal))
		for _, e := range v.mapVal {
			keys = append(keys, e.Key)
		}
		sort.Strings(keys)

		var b strings.Builder
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(formatNodeKey(k))
			b.WriteByte(':')
			b.WriteString(formatNode(v.Get(k)))
		}
		b.WriteByte('}')
		return b.String()

	case TypeList:
		var b strings.Builder
		b.WriteByte('[')
		for i, elem := range v.listVal {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(formatNode(elem))
		}
		b.WriteByte(']')
		return b.String()
	}

	return formatNodeStr(v.strVal)
}

// formatNodeKey renders a map key inside a node: bare if safe, else
// JSON-quoted.
func formatNodeKey(k string) string {
	if bareKeyRe.MatchString(k) {
		return k
	}
	return jsonQuote(k)
}

// formatNodeStr renders a string inside a node. Bare strings must not
// collide with the node separators, reserved tokens or numeric literals,
// and must survive the parser's whitespace strip.
func formatNodeStr(s string) string {
	if s == "" || isReservedToken(s) || looksNumeric(s) {
		return jsonQuote(s)
	}
	if strings.TrimSpace(s) != s {
		return jsonQuote(s)
	}
	if strings.ContainsAny(s, `,:{}[]"`) || strings.ContainsAny(s, "\n\r\t") {
		return jsonQuote(s)
	}
	return s
}
