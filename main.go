// The main package for the domgraph executable.
package main

import (
	"github.com/domgraph/domgraph/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
