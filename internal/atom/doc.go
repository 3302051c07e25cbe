// Package atom provides the value types for symbolic records and the
// line-oriented parser and serializer that convert between them and text.
//
// A record is one line of a backing file written in parenthesized notation:
//
//	(CG07AU599 ("Prakhar Singh") "0xABC" "car" "RC123")
//
// Parsing produces a tree of atoms:
//   - Symbol: bare token, e.g. CG07AU599 or isTouristPlace
//   - String: token enclosed in double quotes (quotes stripped)
//   - Number: bare numeric token, kept as text and converted on demand
//   - List: ordered children between matching parentheses
//
// This package imports nothing internal. Store, schema and engine packages
// all build on it.
package atom
