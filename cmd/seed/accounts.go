package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/repository"
	"github.com/jobnest/jobnest-backend/internal/app/service"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/jobnest/jobnest-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Columns: email | name | role | company_name | headline
const (
	colEmail = iota
	colName
	colRole
	colCompany
	colHeadline
)

type accountRow struct {
	Email       string
	Name        string
	Role        model.UserRole
	CompanyName string
	Headline    string
}

type provisionResult struct {
	Created  int
	Existing int
	Failed   int
}

func readAccountsFromXLSX(filePath string) ([]accountRow, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var accounts []accountRow
	seen := make(map[string]bool)
	skipped := 0

	// first row is the header
	for _, row := range rows[1:] {
		if len(row) <= colRole {
			skipped++
			continue
		}

		account := accountRow{
			Email: service.NormalizeEmail(row[colEmail]),
			Name:  strings.TrimSpace(row[colName]),
			Role:  model.UserRole(strings.ToLower(strings.TrimSpace(row[colRole]))),
		}
		if len(row) > colCompany {
			account.CompanyName = strings.TrimSpace(row[colCompany])
		}
		if len(row) > colHeadline {
			account.Headline = strings.TrimSpace(row[colHeadline])
		}

		if account.Email == "" || !strings.Contains(account.Email, "@") || account.Name == "" || !account.Role.IsValid() {
			skipped++
			continue
		}
		if seen[account.Email] {
			skipped++
			continue
		}
		seen[account.Email] = true
		accounts = append(accounts, account)
	}

	return accounts, skipped, nil
}

// provisionAccounts creates each missing account with an unusable random
// password and sends a reset link so the owner picks their own.
func provisionAccounts(ctx context.Context, accounts []accountRow, users repository.UserRepository, resets service.PasswordResetService) provisionResult {
	var result provisionResult

	for _, account := range accounts {
		_, err := users.FindByEmail(ctx, account.Email)
		if err == nil {
			result.Existing++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to look up account", err, map[string]interface{}{
				"email": account.Email,
			})
			result.Failed++
			continue
		}

		password, err := util.GenerateSecret()
		if err != nil {
			result.Failed++
			continue
		}
		hash, err := util.HashPassword(password)
		if err != nil {
			result.Failed++
			continue
		}

		user := &model.User{
			Email:        account.Email,
			PasswordHash: hash,
			Name:         account.Name,
			Role:         account.Role,
			Active:       true,
			CompanyName:  account.CompanyName,
			Headline:     account.Headline,
		}
		if err := users.Create(ctx, user); err != nil {
			result.Failed++
			continue
		}

		if err := resets.RequestReset(ctx, user.Email); err != nil {
			logger.Warn("Account created but invitation failed", map[string]interface{}{
				"user_id": user.ID,
				"error":   err.Error(),
			})
		}
		result.Created++
	}

	return result
}
