package main

import (
	"github.com/joho/godotenv"

	"github.com/vigilab/vigirag/internal/adapters/driving/cli"
)

func main() {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	cli.Execute()
}
