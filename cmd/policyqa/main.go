package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/policyqa/internal/adapters/driving/cli"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
