package zon

import (
	"encoding/csv"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// ClearText Grammar Constants
// ============================================================
//
// The grammar is pure immutable configuration: process-wide constants with
// no lifecycle. Per-call state lives in the encoder/decoder, never here.

const (
	// tableMarker opens a table header line: @name(count): cols
	tableMarker = "@"

	// metaSeparator separates key from value in metadata lines and the
	// header prefix from the column list.
	metaSeparator = ": "

	// cellSeparator joins cells and column names. No space, for compactness.
	cellSeparator = ","

	// keySeparator joins flattened key paths.
	keySeparator = "."

	// autoIncToken is a one-character cell meaning "previous column value
	// plus one" (the only step the token can express).
	autoIncToken = "_"

	// repeatToken is a one-character cell meaning "identical to the previous
	// row's value in this column".
	repeatToken = "^"

	// defaultStreamKey names the table when a bare list is the root.
	defaultStreamKey = "data"

	// DefaultAnchorInterval is accepted for compatibility with older
	// encoders. It has no effect on output.
	DefaultAnchorInterval = 10
)

// tableHeaderRe matches "@name(count): col1,col2,...".
var tableHeaderRe = regexp.MustCompile(`^@(\w+)\((\d+)\): (.+)$`)

// tableNameRe gates stream promotion: a key that cannot appear in a header
// must stay in metadata.
var tableNameRe = regexp.MustCompile(`^\w+$`)

// bareKeyRe matches keys that may appear unquoted inside nested nodes.
var bareKeyRe = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// isReservedToken reports whether s collides with a literal or compression
// token and must be quoted to survive as a string.
func isReservedToken(s string) bool {
	switch s {
	case "T", "F", "null", autoIncToken, repeatToken:
		return true
	}
	return false
}

// looksNumeric reports whether the decoder would read s as a number.
// The encoder quotes such strings; using the same parse functions on both
// sides keeps the ambiguity guard exact.
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// needsCSVQuotes reports whether a rendered cell must be wrapped in RFC 4180
// quotes to survive the comma/line grammar.
func needsCSVQuotes(s string) bool {
	if s == "" {
		return true
	}
	if isReservedToken(s) {
		return true
	}
	// Numeric-looking strings are quoted so they stay strings.
	if looksNumeric(s) {
		return true
	}
	// Edge whitespace is stripped by the cell parser.
	if strings.TrimSpace(s) != s {
		return true
	}
	// A leading @ in the first column would read as a table header.
	if strings.HasPrefix(s, tableMarker) {
		return true
	}
	return strings.ContainsAny(s, ",\n\r\t\"[]{}")
}

// needsTypeProtection reports whether a string cell must be JSON-quoted
// before CSV quoting. CSV quoting alone is stripped by the tokenizer, so
// anything the cell parser would then retype or reshape needs the inner
// JSON layer: empty strings (read as null), reserved tokens, numeric-looking
// text, edge whitespace (stripped), line breaks (which would split the
// physical line), and text opening with a quote, brace or bracket (read as
// quoted string or nested node).
func needsTypeProtection(s string) bool {
	if s == "" {
		return true
	}
	if isReservedToken(s) || looksNumeric(s) {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	if strings.ContainsAny(s, "\n\r") {
		return true
	}
	switch s[0] {
	case '"', '{', '[':
		return true
	}
	return false
}

// csvQuote wraps s in RFC 4180 quotes, doubling internal quotes.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// unquoteCell strips one layer of CSV quoting from a metadata value, so
// metadata and table cells share one quoting pipeline. Values that are not
// CSV-quoted (or quoted text followed by trailing garbage) pass through
// unchanged.
func unquoteCell(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, `"`) {
		return s
	}
	r := csv.NewReader(strings.NewReader(t))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	cells, err := r.Read()
	if err != nil || len(cells) != 1 {
		return s
	}
	return cells[0]
}

// splitCells splits one table row into cells, respecting quoted commas.
// Never fails: on malformed quoting it falls back to a plain comma split.
func splitCells(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	cells, err := r.Read()
	if err != nil {
		return strings.Split(line, cellSeparator)
	}
	return cells
}
