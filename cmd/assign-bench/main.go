// assign-bench benchmarks matcher configurations from the command line and
// exports the measurements as JSON, CSV or an aligned table.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
