// Package harness runs YAML conformance scenarios against the engine.
//
// Each scenario gets a fresh data directory seeded with its files. Steps
// call engine operations in order; the trace of outcomes and results and
// the final file contents are compared against golden files.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	files:
//	  vehicles:
//	    - '(KA01 ("Asha") "0x1" "bike" "RC1")'
//	steps:
//	  - op: register_vehicle
//	    args: { vehicle_number: CG07AU599, full_name: Prakhar, ... }
//	    expect:
//	      outcome: ok
//	      result: { record: '(CG07AU599 ("Prakhar") ...)' }
//	  - op: vehicle
//	    args: { vehicle_number: ZZ000 }
//	    expect: { outcome: not_found }
//	assertions:
//	  - type: trace_order
//	    ops: [register_vehicle, vehicle]
//	  - type: final_file
//	    domain: vehicles
//	    contains: ['(CG07AU599 ("Prakhar") "0xABC" "car" "RC123")']
//
// Outcomes are ok, not_found, validation and error. Expected results are
// subset matches. Request ids come from a sequence generator, so runs are
// deterministic.
package harness
