// Package main provides the pagetrail command line tool for working with a
// library offline: summaries, listings and JSON export/import.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
