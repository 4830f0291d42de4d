// Command qpcanon canonicalizes quadratic programs described in YAML files
// into solver-ready (P, q, d, A, b) data.
//
// Usage:
//
//	qpcanon stuff problem.yaml --param p=2
//	qpcanon dims problem.yaml
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
