package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/promptimpact/impact-proxy/app/app"
)

func main() {
	// Optional .env for local runs; real deployments set the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Skipping .env: %v", err)
	}

	a, err := app.NewApp()
	if err != nil {
		log.Printf("Application failed: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("Error closing application: %v", err)
		}
	}()
	if err := a.Run(); err != nil {
		log.Printf("Application failed: %v", err)
		os.Exit(1)
	}
}
