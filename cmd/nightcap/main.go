// Command nightcap serves and exports a transactional RDF-star store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nightcap:", err)
		os.Exit(1)
	}
}
