package zon

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ============================================================
// ClearText Decoder
// ============================================================

// DecodeError reports a structurally invalid table header, the only input
// the decoder rejects. Everything else is handled by best-effort fallback.
type DecodeError struct {
	Message string
	Line    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("zon: %s: %q", e.Message, e.Line)
}

// tableState tracks one open table between its header and its final row.
type tableState struct {
	name     string
	cols     []string
	rows     []rowEntries
	prev     map[string]*Value
	rowIndex int
	expected int
}

func (t *tableState) open() bool {
	return t.rowIndex < t.expected
}

// Decode parses a ZON ClearText document back into a value.
//
// Lines are processed strictly in order by a two-state classifier: Idle,
// where a line is a table header, a metadata line, or stray text; and
// InTable, where every non-blank line is a data row until the declared row
// count is consumed. The only error is a *DecodeError for a header that
// does not match the fixed grammar.
func Decode(text string) (*Value, error) {
	if strings.TrimSpace(text) == "" {
		return Map(), nil
	}

	lines := strings.Split(text, "\n")

	if v, ok := decodeDegenerate(lines); ok {
		return v, nil
	}

	metadata := Map()
	var tables []*tableState
	var current *tableState

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t\r")
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, tableMarker):
			// A header always opens a new table, closing any table still
			// nominally open.
			st, err := parseTableHeader(line)
			if err != nil {
				return nil, err
			}
			tables = append(tables, st)
			current = st
			if !current.open() {
				current = nil
			}

		case current != nil && current.open():
			parseTableRow(line, current)
			if !current.open() {
				current = nil
			}

		case strings.Contains(line, metaSeparator):
			current = nil // forcibly close a half-read table
			key, val, _ := strings.Cut(line, metaSeparator)
			cell := unquoteCell(strings.TrimSpace(val))
			metadata.Set(strings.TrimSpace(key), parseCell(cell))

		default:
			// Stray text between blocks is skipped, never fatal.
		}
	}

	// Merge tables into the metadata map under their names, then rebuild
	// nesting across the whole document.
	for _, st := range tables {
		rows := make([]*Value, len(st.rows))
		for i, row := range st.rows {
			rows[i] = unflatten(row)
		}
		metadata.Set(st.name, List(rows...))
	}

	result := unflatten(metadata.mapVal)

	// Inverse of the synthetic root promotion key: a document holding only
	// the default table is a bare list.
	if result.Len() == 1 {
		if data := result.Get(defaultStreamKey); data != nil && data.Type() == TypeList {
			return data, nil
		}
	}

	return result, nil
}

// decodeDegenerate recognizes the single-line fallback form Encode emits for
// roots with no stream and no metadata: one compact JSON line. Bare scalar
// text that is not JSON is accepted permissively as a cell.
func decodeDegenerate(lines []string) (*Value, bool) {
	content := ""
	count := 0
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		content = line
		count++
		if count > 1 {
			return nil, false
		}
	}
	if count != 1 {
		return nil, false
	}

	if json.Valid([]byte(content)) {
		if v, err := FromJSON([]byte(content)); err == nil {
			return v, true
		}
	}
	if !strings.Contains(content, metaSeparator) && !strings.HasPrefix(content, tableMarker) {
		return parseCell(content), true
	}
	return nil, false
}

// ============================================================
// Table Reader
// ============================================================

// parseTableHeader parses "@name(count): col1,col2,...". Failing the fixed
// grammar is the decoder's one hard error.
func parseTableHeader(line string) (*tableState, error) {
	m := tableHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return nil, &DecodeError{Message: "invalid table header", Line: line}
	}

	count, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, &DecodeError{Message: "invalid table row count", Line: line}
	}

	cols := strings.Split(m[3], cellSeparator)
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}

	return &tableState{
		name:     m[1],
		cols:     cols,
		prev:     make(map[string]*Value, len(cols)),
		expected: count,
	}, nil
}

// parseTableRow decodes one data row, expanding compression tokens against
// the per-column previous-value state. Short rows are right-padded with
// empty cells.
func parseTableRow(line string, st *tableState) {
	cells := splitCells(line)
	for len(cells) < len(st.cols) {
		cells = append(cells, "")
	}

	row := make(rowEntries, 0, len(st.cols))
	for i, col := range st.cols {
		tok := strings.TrimSpace(cells[i])

		var val *Value
		switch tok {
		case autoIncToken:
			val = autoIncrement(st.prev[col], st.rowIndex)
		case repeatToken:
			val = st.prev[col]
			if val == nil {
				val = Null()
			}
		default:
			val = parseCell(cells[i])
		}

		row = append(row, MapEntry{Key: col, Value: val})
		st.prev[col] = val
	}

	st.rows = append(st.rows, row)
	st.rowIndex++
}

// autoIncrement resolves the auto-increment token: previous value plus one
// when the previous value is numeric (booleans are checked strictly before
// numbers and never qualify), else the 0-based row index plus one.
func autoIncrement(prev *Value, rowIndex int) *Value {
	if prev != nil {
		switch prev.typ {
		case TypeInt:
			return Int(prev.intVal + 1)
		case TypeFloat:
			return Float(prev.floatVal + 1)
		}
	}
	return Int(int64(rowIndex) + 1)
}
