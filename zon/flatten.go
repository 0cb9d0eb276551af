package zon

import (
	"strconv"
	"strings"
)

// ============================================================
// Depth-Limited Flattening
// ============================================================
//
// Nested objects collapse into dotted keys, but only maxFlattenDepth levels
// deep. This bounds table width regardless of nesting depth: anything deeper,
// and all arrays, stay inline as nested node cells.

// maxFlattenDepth is the number of object levels merged into dotted keys.
const maxFlattenDepth = 1

// flatten converts a map value into a flat entry list with dotted keys.
// Non-map values flatten to nothing.
func flatten(v *Value) []MapEntry {
	var out []MapEntry
	flattenInto(&out, v, "", 0)
	return out
}

func flattenInto(out *[]MapEntry, v *Value, parent string, depth int) {
	if v == nil || v.typ != TypeMap {
		if parent != "" {
			*out = append(*out, MapEntry{Key: parent, Value: v})
		}
		return
	}
	for _, e := range v.mapVal {
		key := e.Key
		if parent != "" {
			key = parent + keySeparator + e.Key
		}
		if e.Value.Type() == TypeMap && e.Value.Len() > 0 &&
			depth < maxFlattenDepth && flattenSafe(e.Value) {
			flattenInto(out, e.Value, key, depth+1)
		} else {
			*out = append(*out, MapEntry{Key: key, Value: e.Value})
		}
	}
}

// flattenSafe reports whether a nested map's keys survive the dotted-path
// grammar. Keys containing the path separator, and all-digit keys (which
// unflatten as list indices), would not reconstruct; such maps stay inline
// as nested nodes. Empty maps stay inline too, since they flatten to
// nothing at all.
func flattenSafe(v *Value) bool {
	for _, e := range v.mapVal {
		if strings.Contains(e.Key, keySeparator) {
			return false
		}
		if _, numeric := parseIndex(e.Key); numeric {
			return false
		}
	}
	return true
}

// ============================================================
// Unflattening
// ============================================================

// unflatten rebuilds nested maps and lists from dotted keys. All-digit path
// segments are list indices by convention: the container at that point is a
// list, extended with empty maps as needed. An all-digit final segment is
// dropped (a map cannot end a dotted path with a bare numeric key).
func unflatten(entries []MapEntry) *Value {
	result := Map()
	for _, e := range entries {
		unflattenInto(result, e.Key, e.Value)
	}
	return result
}

func unflattenInto(root *Value, key string, val *Value) {
	if !strings.Contains(key, keySeparator) {
		root.Set(key, val)
		return
	}

	parts := strings.Split(key, keySeparator)
	target := root

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		next := parts[i+1]

		if idx, ok := parseIndex(next); ok {
			// part names a list; next is an index into it.
			list := target.Get(part)
			if list == nil || list.typ != TypeList {
				list = List()
				target.Set(part, list)
			}
			for list.Len() <= idx {
				list.Append(Map())
			}
			elem, _ := list.Index(idx)
			if elem.Type() != TypeMap {
				// Index already holds a reconstructed leaf; leave it alone.
				return
			}
			target = elem
			i++ // the index segment is consumed
			continue
		}

		child := target.Get(part)
		if child == nil {
			child = Map()
			target.Set(part, child)
		}
		if child.Type() != TypeMap {
			// An intermediate segment already holds a leaf; do not overwrite.
			return
		}
		target = child
	}

	final := parts[len(parts)-1]
	if _, ok := parseIndex(final); ok {
		return
	}
	target.Set(final, val)
}

// parseIndex reports whether a path segment is a usable list index.
func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
