package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"limitbook/internal/config"
	"limitbook/internal/engine"
	"limitbook/internal/feed"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting limitbook feed service...")

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize the book registry (one Book per traded symbol)
	registry := engine.NewRegistry(engine.NewScale(cfg.PriceScalePlaces))
	log.Printf("Book registry initialized (scale: %d decimal places)", cfg.PriceScalePlaces)

	// Initialize feed server (HTTP + WebSocket)
	server := feed.NewServer(cfg, registry)

	// Exit the process on SIGINT/SIGTERM; the HTTP server is not drained first
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		os.Exit(0)
	}()

	// Start server
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
