package main

import (
	"github.com/dennishilgert/lambdeploy/cmd/lambdeploy/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file for local development.
	godotenv.Load()

	cmd.Run()
}
