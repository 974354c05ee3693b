// Command checkoutsim estimates the steady state of a supermarket checkout
// by running many independent trials of an M/M/1 simulation.
package main

import (
	"github.com/sarchlab/checkoutsim/checkoutsim/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
