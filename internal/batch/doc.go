// Package batch evaluates a file of estimate scenarios.
//
// A scenario file lists named form submissions:
//
//	scenarios:
//	  - name: household
//	    strategy: energy
//	    fields:
//	      consumption: "150"
//	      current_rate: "0.1529"
//
// Scenarios are independent. They are evaluated concurrently up to a
// configured limit, results keep the order of the file, and a scenario that
// fails validation is reported without stopping the others.
package batch
