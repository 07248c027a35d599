// Command perceptiactl is a read-only CLI client for a running perceptia
// server's introspection endpoints, plus local configuration inspection.
package main

import (
	"fmt"
	"os"

	"github.com/darkelement/perceptia/cmd/perceptiactl/commands"
)

var version = "dev"

func main() {
	commands.Version = version

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "perceptiactl:", err)
		os.Exit(1)
	}
}
