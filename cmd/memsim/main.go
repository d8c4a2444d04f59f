// Command memsim runs random traffic on configurable memory systems.
package main

import "github.com/sarchlab/memsim/cmd/memsim/cmd"

func main() {
	cmd.Execute()
}
