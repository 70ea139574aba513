package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/joho/godotenv"

	"linedash/app"
	"linedash/internal/config"
	"linedash/internal/session"
	"linedash/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Both workbooks must load before anything is served
	dashboard, err := app.LoadDashboard(context.Background(), appConfig)
	if err != nil {
		log.Fatalf("Failed to load datasets: %v", err)
	}

	sessions := session.NewStore(appConfig.Session.TTL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions.StartSweeper(ctx, 10*time.Minute)

	server, err := ui.NewServer(dashboard, sessions, ui.ServerConfig{
		GinMode:    appConfig.Server.GinMode,
		CookieName: appConfig.Session.CookieName,
		SessionTTL: appConfig.Session.TTL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("🚀 Performance profiling server starting on :%s", appConfig.Profiling.Port)
			log.Printf("💡 View profiles: go tool pprof -http=:8082 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("❌ pprof server failed: %v", err)
			}
		}()
	}

	log.Printf("🚀 Starting linedash dashboard on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
