package zon

import (
	"strings"
	"testing"
)

// ============================================================
// Round-Trip Tests
// ============================================================
//
// Decode(Encode(v)) must reproduce v exactly: same structure, same types.
// The cases here concentrate on values whose textual form collides with
// some other type's literal.

func checkRoundTrip(t *testing.T, v *Value) {
	t.Helper()
	text := Encode(v)
	got, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode failed: %v\nencoded:\n%s", err, text)
	}
	if !got.Equal(v) {
		t.Errorf("round trip mismatch\nencoded:\n%s\ndecoded back:\n%s", text, Encode(got))
	}
}

func TestRoundTripScalarRoots(t *testing.T) {
	for _, v := range []*Value{
		Null(), Bool(true), Bool(false),
		Int(0), Int(-1), Int(1<<62 - 1),
		Float(0), Float(2), Float(-0.125), Float(1e300),
		Str(""), Str("plain"), Str("123"), Str("null"), Str("k: v"),
		Str("@data(1): x"), Str("line\nbreak"),
		List(), Map(),
	} {
		checkRoundTrip(t, v)
	}
}

func TestRoundTripAmbiguousStrings(t *testing.T) {
	// Strings that read as another type when unquoted. Each must come back
	// as a string, and the matching typed value must come back typed.
	collisions := []string{"123", "-5", "2.5", "1e3", "T", "F", "null", "_", "^"}
	for _, s := range collisions {
		checkRoundTrip(t, Map(Field("v", Str(s))))
		checkRoundTrip(t, List(Map(Field("v", Str(s))), Map(Field("v", Str(s)))))
	}

	checkRoundTrip(t, Map(Field("v", Int(123))))
	checkRoundTrip(t, Map(Field("v", Float(2.5))))
	checkRoundTrip(t, Map(Field("v", Bool(true))))
	checkRoundTrip(t, Map(Field("v", Null())))
}

func TestRoundTripIntFloatSubtype(t *testing.T) {
	m := Map(Field("i", Int(2)), Field("f", Float(2)))
	text := Encode(m)
	got := mustDecode(t, text)

	if v := got.Get("i"); v.Type() != TypeInt {
		t.Errorf("int came back as %s", v.Type())
	}
	if v := got.Get("f"); v.Type() != TypeFloat {
		t.Errorf("float came back as %s", v.Type())
	}
}

func TestRoundTripAwkwardStrings(t *testing.T) {
	awkward := []string{
		"", " ", "  leading", "trailing  ",
		"comma, inside", `quote " inside`, "tab\tinside",
		"multi\nline", "windows\r\nline",
		"{x:1}", "[1,2]", `{"json":true}`, `"already quoted"`,
		"@header lookalike", "True", "False", "NaN",
		"日本語テキスト", "emoji 🎉 text",
	}
	for _, s := range awkward {
		checkRoundTrip(t, Map(Field("v", Str(s))))
	}
}

func TestRoundTripAwkwardKeys(t *testing.T) {
	// Metadata keys pass through the dotted-path grammar but are otherwise
	// plain text on the line.
	checkRoundTrip(t, Map(Field("simple", Int(1))))
	checkRoundTrip(t, Map(Field("with-dash", Int(1))))
	checkRoundTrip(t, Map(Field("under_score", Int(1))))
}

func TestRoundTripStreams(t *testing.T) {
	checkRoundTrip(t, mustFromJSON(t, `[{"id":1,"name":"A"},{"id":2,"name":"B"}]`))
	checkRoundTrip(t, mustFromJSON(t, `{"meta":"x","items":[{"a":1},{"a":2}]}`))
	checkRoundTrip(t, mustFromJSON(t, `[{"id":1,"extra":"v"},{"id":2}]`))
	checkRoundTrip(t, mustFromJSON(t, `[{"id":10},{"id":11},{"id":12},{"id":13}]`))
	checkRoundTrip(t, mustFromJSON(t, `[{"id":10},{"id":20},{"id":30}]`))
	checkRoundTrip(t, mustFromJSON(t, `[{"s":"active"},{"s":"active"},{"s":"done"}]`))
}

func TestRoundTripNestedValues(t *testing.T) {
	checkRoundTrip(t, mustFromJSON(t, `{
		"service": {"name":"api","port":8080},
		"deep": {"l1":{"l2":{"l3":"bottom"}}},
		"tags": ["a","b","c"],
		"matrix": [[1,2],[3,4]],
		"records": [{"id":1,"opts":{"x":true}},{"id":2,"opts":{"x":false}}]
	}`))
}

func TestRoundTripUnsafeStructures(t *testing.T) {
	// Structures the encoder refuses to flatten or promote must survive as
	// inline nodes.
	checkRoundTrip(t, Map(Field("m", Map(Field("a.b", Int(1))))))
	checkRoundTrip(t, Map(Field("m", Map(Field("0", Str("zero"))))))
	checkRoundTrip(t, Map(Field("m", Map())))
	checkRoundTrip(t, Map(Field("items", List(Map(Field("a.b", Int(1)))))))
	checkRoundTrip(t, Map(Field("mixed", List(Map(Field("a", Int(1))), Int(2)))))
	checkRoundTrip(t, List(Map(), Map()))
	checkRoundTrip(t, Map(Field("items", List(Map()))))
}

func TestRoundTripNullsInStream(t *testing.T) {
	checkRoundTrip(t, mustFromJSON(t, `[{"a":1,"b":null},{"a":2,"b":"x"}]`))
	checkRoundTrip(t, mustFromJSON(t, `[{"a":null},{"a":null}]`))
}

func TestRoundTripEmptyStringVsNullCell(t *testing.T) {
	// An empty cell means null; an empty string cell must stay a string.
	v := mustFromJSON(t, `[{"a":"","b":null},{"a":"x","b":1}]`)
	text := Encode(v)
	got := mustDecode(t, text)

	rows, err := got.AsList()
	if err != nil {
		t.Fatalf("decoded root: %v", err)
	}
	if cell := rows[0].Get("a"); !cell.Equal(Str("")) {
		t.Errorf("empty string cell: got %v (%s)", cell, cell.Type())
	}
	if cell := rows[0].Get("b"); !cell.IsNull() {
		t.Errorf("null cell: got %v", cell)
	}
}

func TestRoundTripLargeSequentialStream(t *testing.T) {
	rows := make([]*Value, 100)
	for i := range rows {
		rows[i] = Map(
			Field("id", Int(int64(i+1))),
			Field("bucket", Str("batch-7")),
		)
	}
	v := List(rows...)
	checkRoundTrip(t, v)

	// The repeated bucket value collapses to the repeat token from the
	// second row on.
	text := Encode(v)
	if !strings.Contains(text, "^,") {
		t.Errorf("expected repeat tokens in:\n%s", text)
	}
}
