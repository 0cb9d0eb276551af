package zon

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// ClearText Encoder
// ============================================================

// EncodeOptions configures encoding behavior.
type EncodeOptions struct {
	// AnchorInterval is accepted for compatibility with older encoders and
	// has no effect on output.
	AnchorInterval int
}

// DefaultEncodeOptions returns default encoding options.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{AnchorInterval: DefaultAnchorInterval}
}

// Encode renders a value as a ZON ClearText document. It never fails:
// values with no promotable stream and no metadata fall back to a single
// compact JSON line. Output is deterministic for a given value.
func Encode(v *Value) string {
	return EncodeWithOptions(v, DefaultEncodeOptions())
}

// EncodeWithOptions renders a value with explicit options.
func EncodeWithOptions(v *Value, _ EncodeOptions) string {
	stream, meta, streamKey := extractPrimaryStream(v)

	if len(stream) == 0 && meta.Len() == 0 {
		// Degenerate roots: scalars, empty containers, non-tabular lists.
		return encodeDegenerate(v)
	}

	var lines []string

	if meta.Len() > 0 {
		lines = append(lines, writeMetadata(meta)...)
	}

	if len(stream) > 0 {
		if streamKey == "" {
			streamKey = defaultStreamKey
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, writeTable(stream, streamKey)...)
	}

	return strings.Join(lines, "\n")
}

// encodeDegenerate emits a compact JSON rendering of the whole value.
// decodeDegenerate is its inverse.
func encodeDegenerate(v *Value) string {
	data, err := ToJSON(v)
	if err != nil {
		// Unrepresentable scalars (NaN/Inf) stringify defensively.
		return formatCell(v)
	}
	return string(data)
}

// ============================================================
// Root-Stream Promotion
// ============================================================

// extractPrimaryStream splits the input into at most one tabular stream
// plus metadata. For map roots, the direct entry with the highest
// rows×columns score among promotable candidates becomes the stream (ties
// broken by first-seen order); for list roots the whole list is the stream
// under no key. Anything else is metadata.
func extractPrimaryStream(v *Value) ([]*Value, *Value, string) {
	if v == nil {
		return nil, Map(), ""
	}

	switch v.typ {
	case TypeList:
		if promotable(v, "") {
			return v.listVal, Map(), ""
		}
		return nil, Map(), ""

	case TypeMap:
		bestScore := -1
		bestKey := ""
		var bestStream []*Value
		for _, e := range v.mapVal {
			if !promotable(e.Value, e.Key) {
				continue
			}
			rows := e.Value.listVal
			score := len(rows) * rows[0].Len()
			if score > bestScore {
				bestScore = score
				bestKey = e.Key
				bestStream = rows
			}
		}
		if bestStream == nil {
			return nil, v, ""
		}
		meta := Map()
		for _, e := range v.mapVal {
			if e.Key != bestKey {
				meta.Set(e.Key, e.Value)
			}
		}
		return bestStream, meta, bestKey

	default:
		return nil, Map(), ""
	}
}

// promotable reports whether a value can become the stream: a non-empty
// list of maps whose key fits the header grammar (empty key means the list
// root, which takes the synthetic name), whose flattened keys are all
// usable column names, and which yields at least one column (a header with
// an empty column list does not parse). Disqualified lists stay in metadata
// as nested nodes, which keeps the document decodable.
func promotable(v *Value, key string) bool {
	if v == nil || v.typ != TypeList || len(v.listVal) == 0 {
		return false
	}
	if key != "" && !tableNameRe.MatchString(key) {
		return false
	}
	hasCols := false
	for _, elem := range v.listVal {
		if elem.Type() != TypeMap {
			return false
		}
		for _, e := range elem.mapVal {
			// A literal dot in a record key is indistinguishable from a
			// flattened path on the way back.
			if strings.Contains(e.Key, keySeparator) {
				return false
			}
		}
		for _, e := range flatten(elem) {
			if !safeColumnName(e.Key) {
				return false
			}
			hasCols = true
		}
	}
	return hasCols
}

// safeColumnName reports whether a flattened key survives the header's
// comma-separated column list and the row grammar.
func safeColumnName(s string) bool {
	if s == "" {
		return false
	}
	if strings.TrimSpace(s) != s {
		return false
	}
	return !strings.ContainsAny(s, ",\n\r\"")
}

// ============================================================
// Metadata Writer
// ============================================================

// writeMetadata renders the metadata map as sorted "key: value" lines.
func writeMetadata(meta *Value) []string {
	flat := flatten(meta)
	sort.SliceStable(flat, func(i, j int) bool { return flat[i].Key < flat[j].Key })

	lines := make([]string, 0, len(flat))
	for _, e := range flat {
		lines = append(lines, e.Key+metaSeparator+formatCell(e.Value))
	}
	return lines
}

// ============================================================
// Table Writer
// ============================================================

// rowEntries is one flattened stream record.
type rowEntries []MapEntry

// get returns the value for a column, or nil when the cell is absent.
func (r rowEntries) get(col string) *Value {
	for _, e := range r {
		if e.Key == col {
			return e.Value
		}
	}
	return nil
}

// writeTable renders the stream as a table block: a header line followed by
// one compressed CSV row per record.
func writeTable(stream []*Value, key string) []string {
	rows := make([]rowEntries, len(stream))
	colSet := make(map[string]struct{})
	for i, rec := range stream {
		rows[i] = flatten(rec)
		for _, e := range rows[i] {
			colSet[e.Key] = struct{}{}
		}
	}

	cols := make([]string, 0, len(colSet))
	for c := range colSet {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	analysis := analyzeColumns(rows, cols)

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, tableMarker+key+"("+strconv.Itoa(len(stream))+")"+metaSeparator+strings.Join(cols, cellSeparator))

	prev := make(map[string]*Value, len(cols))
	for i, row := range rows {
		cells := make([]string, 0, len(cols))
		for ci, col := range cols {
			val := row.get(col)
			stats := analysis[col]

			// Auto-increment for the first column (usually an ID). The
			// token decodes as prev+1 in the previous value's type, so it
			// needs a step of exactly one and a matching numeric subtype.
			// Int cells compare in integer arithmetic: above 2^53 a float64
			// check cannot distinguish a step of two from a step of one.
			if ci == 0 && i > 0 && stats.sequential && stats.step == 1 && isSuccessor(prev[col], val) {
				cells = append(cells, autoIncToken)
				prev[col] = val
				continue
			}

			rendered := renderCell(val)

			// Repeat token, only when it actually saves space.
			if i > 0 && stats.repetition && len(rendered) > 1 && sameCell(val, prev[col]) {
				cells = append(cells, repeatToken)
			} else {
				cells = append(cells, rendered)
			}
			prev[col] = val
		}
		line := strings.Join(cells, cellSeparator)
		if line == "" {
			// A single-column null row must not render as a blank line,
			// which the decoder treats as a separator.
			line = "null"
		}
		lines = append(lines, line)
	}

	return lines
}

// isSuccessor reports whether val is exactly prev plus one in prev's own
// numeric subtype, mirroring how the decoder expands the token.
func isSuccessor(prev, val *Value) bool {
	if prev == nil || val == nil || prev.typ != val.typ {
		return false
	}
	switch val.typ {
	case TypeInt:
		return prev.intVal != math.MaxInt64 && prev.intVal+1 == val.intVal
	case TypeFloat:
		return prev.floatVal+1 == val.floatVal
	}
	return false
}

// renderCell renders one table cell. Absent cells and explicit nulls render
// empty; the decoder reads empty cells back as null.
func renderCell(v *Value) string {
	if v.IsNull() {
		return ""
	}
	return formatCell(v)
}

// sameCell compares a cell against the previous row's cell, treating
// absence as null.
func sameCell(a, b *Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	return a.Equal(b)
}
