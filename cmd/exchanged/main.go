package main

import (
	"os"

	"github.com/forbitswap/exchange/cmd/exchanged/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
