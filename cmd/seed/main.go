// Command seed loads YAML fixtures into the configured store and mints
// development bearer tokens.
package main

import (
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
