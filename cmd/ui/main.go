package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"linedash/app"
	"linedash/internal/config"
	"linedash/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dashboard, err := app.LoadDashboard(context.Background(), appConfig)
	if err != nil {
		log.Fatalf("Failed to load datasets: %v", err)
	}

	api := ui.NewApp(dashboard)
	log.Fatal(api.Start(":" + appConfig.Server.APIPort))
}
