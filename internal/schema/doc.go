// Package schema projects record children into named fields.
//
// A Schema is data, declared in CUE (see schemas.cue). Two kinds exist:
//
// Keyed schemas walk the children with a cursor. At each position the
// normalized atom is compared against the rules in order; the first rule
// whose key matches and whose arity fits in the remaining children consumes
// the key plus arity values. Unmatched atoms are skipped one at a time, so a
// malformed fragment drops only itself:
//
//	["no of days" 5 garbage "best time" winter]
//	  -> {total_days: 5, best_time_to_visit: "winter"}
//
// Positional schemas read fixed child indexes:
//
//	(CG07AU599 "10:30" "2024-05-01" ("Asha") 250)
//	  -> {time: "10:30", date: "2024-05-01", name: "Asha", price: 250}
//
// Value conversion never fails a projection. A value that cannot be
// converted to the declared type leaves its field absent.
package schema
