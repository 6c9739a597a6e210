package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"dotabet/cmd"
	"dotabet/config"
	"dotabet/database"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: dotabet migrate [up|down] [steps]")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch os.Args[2] {
	case "up":
		return database.MigrateUp(cfg.DatabaseURL)
	case "down":
		steps := 1
		if len(os.Args) > 3 {
			if steps, err = strconv.Atoi(os.Args[3]); err != nil {
				return fmt.Errorf("invalid step count %q", os.Args[3])
			}
		}
		return database.MigrateDown(cfg.DatabaseURL, steps)
	default:
		return fmt.Errorf("unknown migration command: %s", os.Args[2])
	}
}
