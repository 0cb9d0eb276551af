package zon

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ============================================================
// Cell Parser
// ============================================================

// parseCell converts one textual cell (already CSV-unquoted) back to a
// value. Recognized in order: reserved tokens, nested node text, numeric
// literals, JSON-quoted strings. Anything else is a bare string; nothing
// here ever fails.
func parseCell(text string) *Value {
	// Cells and node interiors share one grammar. A surviving JSON layer
	// always means a string: quoted cells are never re-parsed as numbers,
	// tokens or nodes.
	return parseNode(text)
}

// isNodeText reports whether text is bracket/brace-delimited node text.
func isNodeText(t string) bool {
	if len(t) < 2 {
		return false
	}
	switch t[0] {
	case '{':
		return t[len(t)-1] == '}'
	case '[':
		return t[len(t)-1] == ']'
	}
	return false
}

// ============================================================
// Nested Node Parser
// ============================================================
//
// Recursive descent over the canonical node grammar: {k:v,...} and [v,...].
// Top-level separators are found by a character scan that tracks bracket
// depth and quote state, so nested nodes and quoted separators never split.

// parseNode parses node text into a value.
func parseNode(text string) *Value {
	t := strings.TrimSpace(text)
	if t == "" {
		return Null()
	}

	switch t {
	case "T":
		return Bool(true)
	case "F":
		return Bool(false)
	case "null":
		return Null()
	}

	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		return Int(n)
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return Float(f)
	}

	if t[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(t), &s); err == nil {
			return Str(s)
		}
		return Str(t)
	}

	if isNodeText(t) {
		content := t[1 : len(t)-1]
		if t[0] == '[' {
			return parseNodeList(content)
		}
		return parseNodeMap(content)
	}

	// Unquoted string, or unclosed brackets kept verbatim.
	return Str(t)
}

// parseNodeList parses the interior of [v1,v2,...].
func parseNodeList(content string) *Value {
	if strings.TrimSpace(content) == "" {
		return List()
	}
	parts := splitTopLevel(content, ',')
	// A trailing separator leaves one empty part; drop it.
	if n := len(parts); n > 0 && strings.TrimSpace(parts[n-1]) == "" {
		parts = parts[:n-1]
	}
	items := make([]*Value, 0, len(parts))
	for _, p := range parts {
		items = append(items, parseNode(p))
	}
	return List(items...)
}

// parseNodeMap parses the interior of {k1:v1,k2:v2,...}. Items without a
// top-level key separator are skipped rather than rejected.
func parseNodeMap(content string) *Value {
	if strings.TrimSpace(content) == "" {
		return Map()
	}
	m := Map()
	for _, part := range splitTopLevel(content, ',') {
		if strings.TrimSpace(part) == "" {
			continue
		}
		ci := topLevelIndex(part, ':')
		if ci < 0 {
			continue
		}
		m.Set(parseNodeKey(part[:ci]), parseNode(part[ci+1:]))
	}
	return m
}

// parseNodeKey unquotes a node map key.
func parseNodeKey(raw string) string {
	k := strings.TrimSpace(raw)
	if strings.HasPrefix(k, `"`) {
		var s string
		if err := json.Unmarshal([]byte(k), &s); err == nil {
			return s
		}
	}
	return k
}

// splitTopLevel splits s on sep occurrences at bracket depth zero outside
// quoted strings.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	inQuote := false
	escaped := false
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// topLevelIndex returns the index of the first sep at bracket depth zero
// outside quotes, or -1.
func topLevelIndex(s string, sep byte) int {
	depth := 0
	inQuote := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case sep:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
