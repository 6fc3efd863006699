// @MX:ANCHOR: [AUTO] main is the entry point of the jhipster-multitenancy binary. It exits with code 1 on error.
// @MX:REASON: the only entry point of the executable; delegates to the CLI command tree
package main

import (
	"os"

	"github.com/sonalake/jhipster-multitenancy/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
