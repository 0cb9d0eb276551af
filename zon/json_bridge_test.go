package zon

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ============================================================
// JSON Bridge Tests
// ============================================================

var valueComparer = cmp.Comparer(func(a, b *Value) bool { return a.Equal(b) })

func TestFromJSONTypes(t *testing.T) {
	cases := []struct {
		in   string
		want *Value
	}{
		{`null`, Null()},
		{`true`, Bool(true)},
		{`false`, Bool(false)},
		{`7`, Int(7)},
		{`-7`, Int(-7)},
		{`7.5`, Float(7.5)},
		{`7.0`, Float(7)},
		{`1e2`, Float(100)},
		{`"s"`, Str("s")},
		{`[]`, List()},
		{`[1,"a",null]`, List(Int(1), Str("a"), Null())},
		{`{}`, Map()},
		{`{"a":{"b":[true]}}`, Map(Field("a", Map(Field("b", List(Bool(true))))))},
	}
	for _, c := range cases {
		got, err := FromJSON([]byte(c.in))
		if err != nil {
			t.Errorf("FromJSON(%q): %v", c.in, err)
			continue
		}
		if diff := cmp.Diff(c.want, got, valueComparer); diff != "" {
			t.Errorf("FromJSON(%q) mismatch (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestFromJSONIntFloatSplit(t *testing.T) {
	// The textual form decides the subtype: a fraction or exponent marker
	// means float, even for whole numbers.
	v, err := FromJSON([]byte(`{"i":2,"f":2.0,"e":2e0}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Get("i").Type(); got != TypeInt {
		t.Errorf("i: got %s", got)
	}
	if got := v.Get("f").Type(); got != TypeFloat {
		t.Errorf("f: got %s", got)
	}
	if got := v.Get("e").Type(); got != TypeFloat {
		t.Errorf("e: got %s", got)
	}
}

func TestFromJSONLargeInt(t *testing.T) {
	v, err := FromJSON([]byte(`9223372036854775807`))
	if err != nil {
		t.Fatal(err)
	}
	n, err := v.AsInt()
	if err != nil || n != 9223372036854775807 {
		t.Errorf("got %v, %v", n, err)
	}

	// Beyond int64 the value degrades to float rather than failing.
	v, err = FromJSON([]byte(`92233720368547758080`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Type() != TypeFloat {
		t.Errorf("overflow: got %s", v.Type())
	}
}

func TestFromJSONInvalid(t *testing.T) {
	for _, in := range []string{``, `{`, `[1,`, `{"a":}`, `nope`} {
		if _, err := FromJSON([]byte(in)); err == nil {
			t.Errorf("FromJSON(%q): expected error", in)
		}
	}
}

func TestToJSONDeterministic(t *testing.T) {
	v := Map(Field("z", Int(1)), Field("a", List(Str("x"), Null())))
	got, err := ToJSON(v)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"a":["x",null],"z":1}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestToJSONFloatMarker(t *testing.T) {
	// Integral floats carry an explicit fraction marker so the subtype
	// survives a trip back through FromJSON.
	got, err := ToJSON(Map(Field("f", Float(2)), Field("i", Int(2))))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"f":2.0,"i":2}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestToJSONRejectsNaN(t *testing.T) {
	if _, err := ToJSON(Float(math.NaN())); err == nil {
		t.Error("NaN should not serialize")
	}
	if _, err := ToJSON(List(Float(math.Inf(1)))); err == nil {
		t.Error("Infinity should not serialize")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	srcs := []string{
		`{"a":1,"b":[true,null,"x"],"c":{"d":2.5}}`,
		`[[1,2],[3,4]]`,
		`{"unicode":"héllo","escaped":"a\"b"}`,
		`{"f":2.0}`,
	}
	for _, src := range srcs {
		v, err := FromJSON([]byte(src))
		if err != nil {
			t.Fatalf("FromJSON(%q): %v", src, err)
		}
		out, err := ToJSON(v)
		if err != nil {
			t.Fatalf("ToJSON: %v", err)
		}
		back, err := FromJSON(out)
		if err != nil {
			t.Fatalf("FromJSON(round trip): %v", err)
		}
		if diff := cmp.Diff(v, back, valueComparer); diff != "" {
			t.Errorf("round trip of %q (-want +got):\n%s", src, diff)
		}
	}
}
