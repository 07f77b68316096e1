// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"

	"eqscope/cmd"
	applog "eqscope/internal/log"
	"eqscope/pkg/build"
)

// main is the entry point for the scope.
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Parse command line arguments and load configuration
//
// 2. Concurrent Phase (Hot Path):
//   - Producer goroutine feeds the channel buffers at real time
//   - UI tick drives the analyzer and the response curve
//   - Frames are published to the terminal or the network
//
// 3. Shutdown Phase (Cold Path):
//   - Interrupt or quit cancels the run context
//   - Recording is finalized and transports are closed
func main() {
	if err := build.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
