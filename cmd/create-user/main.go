package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/edufin/finboard-backend/internal/config"
	"github.com/edufin/finboard-backend/internal/database"
	"github.com/edufin/finboard-backend/internal/logger"
	"github.com/edufin/finboard-backend/internal/model"
	"github.com/edufin/finboard-backend/internal/policy"
	"github.com/edufin/finboard-backend/internal/repository"
	"github.com/edufin/finboard-backend/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Services ───────────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(cfg, nil)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Dashboard User ===")

	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: Username is required")
		return
	}

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println()
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	fmt.Print("Enter Role (principal / vice_principal / teacher): ")
	roleStr, _ := reader.ReadString('\n')
	role, err := policy.ParseRole(strings.TrimSpace(roleStr))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	var campusID string
	if role != policy.RolePrincipal {
		fmt.Print("Enter Campus ID: ")
		campusID, _ = reader.ReadString('\n')
		campusID = strings.TrimSpace(campusID)
		if campusID == "" {
			fmt.Println("Error: Campus ID is required for this role")
			return
		}
	}

	var classIDs []string
	if role == policy.RoleTeacher {
		fmt.Print("Enter Class IDs (comma separated): ")
		raw, _ := reader.ReadString('\n')
		for _, id := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				classIDs = append(classIDs, trimmed)
			}
		}
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hash, err := authService.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	newUser := &model.User{
		Username:     username,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		CampusID:     campusID,
		ClassIDs:     classIDs,
	}

	if err := userService.Create(ctx, newUser); err != nil {
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("\nSuccess! User '%s' (%s) created with ID: %d\n", newUser.Name, newUser.Username, newUser.ID)
}
