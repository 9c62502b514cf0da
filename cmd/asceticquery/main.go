// Command asceticquery runs native and entity queries against a configured
// database and prints the rows.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
