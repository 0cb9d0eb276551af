// Package zon implements ZON, a reversible text codec for JSON-like data.
//
// ZON ("ClearText") is designed for semi-structured payloads dominated by one
// large list of uniform records. It renders that list as a compact CSV-like
// table and everything else as flat key: value metadata lines, staying
// diffable and human-readable while being far smaller than JSON.
//
// # Document shape
//
//	meta.author: ana
//	meta.version: 3
//
//	@hikes(3): id,km,name
//	1,7.5,Blue Lake Trail
//	_,9.2,Ridge Overlook
//	_,5.1,Wildflower Loop
//
// Metadata lines are sorted dotted keys. A table opens with
// "@name(count): col1,col2,..." and is followed by exactly count CSV rows.
//
// # Compression tokens
//
// Within table rows, two one-character tokens stand in for whole cells:
//
//	_   auto-increment: previous value in this column plus one
//	^   repeat: identical to the previous row's value in this column
//
// The encoder emits them only when column analysis proves they are safe
// (constant step of one, or verbatim repetition); the decoder always trusts
// the token it reads.
//
// # Data model
//
// Values are a tagged union: null, bool, int, float, string, list, map.
// Integers and floats are distinct and survive a round trip; so do strings
// that merely look like numbers or reserved tokens (they are quoted on the
// way out). For every supported value v, Decode(Encode(v)) is structurally
// equal to v. Encoded text is deterministic: metadata keys and table columns
// are sorted.
//
// # Nested values
//
// Cells hold scalars. Objects are flattened one level into dotted columns;
// anything deeper, and arrays, render inline with a small node grammar:
// {k:v,k2:v2} for maps and [v1,v2] for lists, with JSON-style quoting for
// strings that would collide with the grammar.
//
// # Error tolerance
//
// Decoding is permissive: short rows are padded, stray lines are skipped and
// unparsable tokens come back as bare strings. The single hard failure is a
// table header that does not match the fixed grammar, reported as
// *DecodeError.
package zon
