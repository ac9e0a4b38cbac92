// Command simulate plays a studio through a series of projects in-process and
// prints the reviews.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "simulate: "+err.Error())
		os.Exit(1)
	}
}
