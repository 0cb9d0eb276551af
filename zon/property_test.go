package zon

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// ============================================================
// Property-Based Round-Trip Tests
// ============================================================

func genScalarValue() gopter.Gen {
	return gen.OneGenOf(
		gen.Const(Null()),
		gen.Bool().Map(func(b bool) *Value { return Bool(b) }),
		gen.Int64().Map(func(n int64) *Value { return Int(n) }),
		gen.Float64().Map(func(f float64) *Value { return Float(f) }),
		gen.AnyString().Map(func(s string) *Value { return Str(s) }),
	)
}

func genCellValue() gopter.Gen {
	return gen.OneGenOf(
		genScalarValue(),
		gen.SliceOf(genScalarValue()).Map(func(vs []*Value) *Value { return List(vs...) }),
	)
}

func mapValue(m map[string]*Value) *Value {
	out := Map()
	for k, v := range m {
		out.Set(k, v)
	}
	return out
}

func roundTrips(v *Value) bool {
	decoded, err := Decode(Encode(v))
	return err == nil && decoded.Equal(v)
}

func TestPropertyScalarRootRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("any scalar root survives a round trip", prop.ForAll(
		roundTrips,
		genScalarValue(),
	))

	properties.TestingRun(t)
}

func TestPropertyMetadataRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("flat maps survive a round trip", prop.ForAll(
		func(m map[string]*Value) bool {
			return roundTrips(mapValue(m))
		},
		gen.MapOf(gen.Identifier(), genScalarValue()),
	))

	properties.TestingRun(t)
}

func TestPropertyStreamRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("lists of records survive a round trip", prop.ForAll(
		func(rows []map[string]*Value) bool {
			records := make([]*Value, len(rows))
			for i, row := range rows {
				records[i] = mapValue(row)
			}
			return roundTrips(List(records...))
		},
		gen.SliceOf(gen.MapOf(gen.Identifier(), genCellValue())),
	))

	properties.TestingRun(t)
}

func TestPropertySequentialCompression(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// Token emission and token expansion must agree for any run of
	// consecutive integers, wherever it starts.
	properties.Property("sequential id columns expand losslessly", prop.ForAll(
		func(start int64, n int) bool {
			records := make([]*Value, n)
			for i := range records {
				records[i] = Map(Field("id", Int(start+int64(i))))
			}
			return roundTrips(List(records...))
		},
		gen.Int64Range(-1000000, 1000000),
		gen.IntRange(2, 50),
	))

	// Arbitrary strides must round-trip too, token or not.
	properties.Property("strided id columns expand losslessly", prop.ForAll(
		func(start, stride int64, n int) bool {
			records := make([]*Value, n)
			for i := range records {
				records[i] = Map(Field("id", Int(start+stride*int64(i))))
			}
			return roundTrips(List(records...))
		},
		gen.Int64Range(-1000000, 1000000),
		gen.Int64Range(-100, 100),
		gen.IntRange(2, 50),
	))

	properties.TestingRun(t)
}
