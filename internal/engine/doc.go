// Package engine answers record queries and performs the domain operations
// over three file-backed stores: vehicles, transactions, and locations.
//
// ARCHITECTURE:
//
// Each operation composes a store scan with a compiled predicate and a
// schema projection:
//
//	[request] -> validate -> store.FindFirst/FindAll(querymatch) -> schema.Project -> [result]
//
// Writes go through store.Append (transactions) or store.InsertBeforeMarker
// (vehicles). Vehicle records live above the first marker line; the marker
// line and everything after it are rules, not data, and are never returned
// as vehicles.
//
// OUTCOMES:
//
// Not found is a normal result: singular lookups return (zero, false, nil)
// and plural lookups return an empty slice. Only input validation
// (*ValidationError) and storage failures (*store.Error) are errors.
//
// Every operation is logged with a request_id and reported to the Observer
// with its outcome.
package engine
