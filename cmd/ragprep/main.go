package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Progress and diagnostics go to stderr; stdout stays clean for
	// anything a caller wants to pipe.
	log.SetOutput(os.Stderr)

	// A .env in the working directory is optional.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
