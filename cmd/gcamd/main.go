package main

import (
	"context"
	"os"

	"github.com/gix-network/gcam/cmd/gcamd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
