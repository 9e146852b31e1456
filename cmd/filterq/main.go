// Command filterq inspects and converts filter tokens: decode a token
// to JSON, encode JSON to a token, render the SQL a token translates
// to, and manage preset stores.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
