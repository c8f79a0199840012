package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"brandeduk-store/app"
	"brandeduk-store/app/cli"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Overload(".env"); err == nil {
			log.Printf("Loaded environment variables from .env")
		}
	}

	a, err := app.Initialize()
	if err != nil {
		log.Fatal(err)
	}

	if err := cli.Execute(a); err != nil {
		os.Exit(1)
	}
}
