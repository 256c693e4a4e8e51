package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"voicelog/internal/config"
	"voicelog/internal/database"
	"voicelog/internal/discord"
	"voicelog/internal/voicelog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Create repository and core components
	repository := database.NewRepository(db)
	tracker := voicelog.NewTracker(repository)
	logger := voicelog.NewActivityLogger(repository)

	// Stale open sessions from an unclean shutdown stay in the table;
	// fresh sessions are opened on the next observed voice update.
	tracker.ReconcileOnStartup()

	// Log append failures are best-effort; surface them here.
	go func() {
		for err := range logger.Errors() {
			log.Printf("Voice log write failed: %v", err)
		}
	}()

	// Initialize Discord bot
	bot, err := discord.New(cfg.DiscordToken, cfg.CommandPrefix, repository, tracker, logger)
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}
	defer bot.Stop()

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Println("Shutting down bot...")

	// Close every live session at the current time so durations stay
	// approximately right across restarts.
	tracker.FlushOnShutdown()
}
