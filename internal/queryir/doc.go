// Package queryir provides the predicate representation used to select
// records from a store.
//
// A Predicate describes a condition on one record (a top-level atom.List).
// Predicates are data: they can be built from CLI flags, validated, and
// compiled to a matcher by package querymatch. Keeping the representation
// separate from evaluation lets callers inspect and print a query before it
// runs.
//
// POSITIONS:
//
// Child indexes count from 0 over the whole record, so index 0 is the
// leading key atom:
//
//	(CG07AU599 ("Prakhar") "0xABC" "car" "RC123")
//	 ^0        ^1          ^2      ^3    ^4
//
// COMPARISON:
//
// Text comparisons use the normalized form of an atom (quotes stripped, NFC),
// so KeyEquals{Key: "CG07AU599"} matches both CG07AU599 and "CG07AU599".
//
// SEALED INTERFACE:
//
// Predicate is sealed using the marker method pattern. Only types in this
// package implement it, so the compiler in querymatch can switch
// exhaustively:
//
//	switch p := pred.(type) {
//	case KeyEquals:
//	    // compare the key
//	case And:
//	    // compile each part
//	default:
//	    // unknown predicate
//	}
package queryir
