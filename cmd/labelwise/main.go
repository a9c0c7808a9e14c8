package main

import (
	"fmt"
	"os"

	"github.com/labelwise/backend/config"
	"github.com/labelwise/backend/internal/cli"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
