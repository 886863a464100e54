package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jobnest/jobnest-backend/config"
	"github.com/jobnest/jobnest-backend/internal/app/repository"
	"github.com/jobnest/jobnest-backend/internal/app/service"
	"github.com/jobnest/jobnest-backend/internal/db"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/jobnest/jobnest-backend/pkg/mailer"
)

// seed provisions accounts from a spreadsheet and mails each one a reset
// link as its invitation; nobody ever learns the generated password.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <accounts.xlsx>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	database, err := db.Open(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(database)

	if err := db.Migrate(database); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	accounts, skipped, err := readAccountsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Accounts to provision: %d (skipped rows: %d)\n", len(accounts), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	userRepo := repository.NewUserRepository(database)
	resetRepo := repository.NewPasswordResetRepository(database)
	resets := service.NewPasswordResetService(resetRepo, userRepo, mailer.New(cfg.SMTP), cfg.ResetToken.TTL)

	result := provisionAccounts(context.Background(), accounts, userRepo, resets)

	fmt.Println("Import completed!")
	fmt.Printf("Created: %d, already existing: %d, failed: %d\n", result.Created, result.Existing, result.Failed)
}
