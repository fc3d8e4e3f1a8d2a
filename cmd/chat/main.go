// Command chat runs the intake pipeline as a terminal conversation,
// useful for demos and local testing without a Telegram token.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aduro-health/intake-assistant/internal/config"
	"github.com/aduro-health/intake-assistant/internal/database"
	"github.com/aduro-health/intake-assistant/internal/domain"
	"github.com/aduro-health/intake-assistant/internal/intake"
	"github.com/aduro-health/intake-assistant/internal/logger"
	"github.com/aduro-health/intake-assistant/internal/services"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func printWelcome() {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("%*s\n", 35+len("Aduro Health Assistant")/2, "Aduro Health Assistant")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("\nI can help you with:")
	fmt.Println("  • Setting up your health profile")
	fmt.Println("  • Recording your CGM readings")
	fmt.Println("  • Creating personalized meal plans")
	fmt.Println("\nType 'exit' or 'quit' to end the session")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Println()
}

func main() {
	userID := flag.Uint("user-id", 0, "existing user ID to resume (0 creates a new user)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	// Keep chat output readable: logs go to a file unless overridden.
	logPath := cfg.Logger.OutputPath
	if logPath == "stdout" {
		logPath = "logs/chat.log"
	}
	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: logPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	profiles := services.NewProfileService(db)
	planner := services.NewMealPlanService(profiles, cfg.GeminiAPIKey)
	machine := intake.NewOrchestrator(profiles, planner)

	ctx := context.Background()

	id := *userID
	if id == 0 {
		id, err = profiles.CreateProfile(ctx, &domain.UserProfile{})
		if err != nil {
			logger.Fatal("Failed to create user", "error", err)
		}
		fmt.Printf("Created new user #%d\n", id)
	}

	conv := intake.NewConversationContext(id)
	conv.SessionID = uuid.NewString()

	printWelcome()
	fmt.Printf("Assistant: %s\n\n", machine.Handle(ctx, "", conv))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if lower := strings.ToLower(input); lower == "exit" || lower == "quit" {
			fmt.Println("Goodbye!")
			return
		}

		fmt.Printf("\nAssistant: %s\n\n", machine.Handle(ctx, input, conv))
	}
}
