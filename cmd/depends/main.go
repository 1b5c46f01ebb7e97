package main

import (
	"os"
)

func main() {
	// cobra reports the error, and the usage for argument errors, on stderr.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
