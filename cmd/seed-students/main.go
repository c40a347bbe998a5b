package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/guidely/guidely-backend/internal/config"
	"github.com/guidely/guidely-backend/internal/database"
	"github.com/guidely/guidely-backend/internal/logger"
	"github.com/guidely/guidely-backend/internal/model"
	"github.com/guidely/guidely-backend/internal/repository"
	"github.com/guidely/guidely-backend/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	userService := service.NewUserService(userRepo)

	fmt.Println("=== Seeding 50 Students ===")

	// Every seeded account shares the same throwaway password.
	hash, err := bcrypt.GenerateFromPassword([]byte("guidely-dev"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash seed password")
	}

	names := []string{
		"Alice Johnson", "Brian Smith", "Carla Mendez", "David Kim", "Elena Rossi",
		"Frank Okafor", "Grace Liu", "Hector Alvarez", "Isla Murphy", "James Carter",
		"Keiko Tanaka", "Liam O'Brien", "Mia Torres", "Noah Becker", "Olivia Nguyen",
		"Pedro Santos", "Quinn Walsh", "Rosa Delgado", "Samir Patel", "Tara Singh",
		"Umar Farouk", "Vera Kovac", "Will Turner", "Xiomara Reyes", "Yusuf Demir",
		"Zoe Fletcher", "Aaron Blake", "Bella Novak", "Caleb Wright", "Daria Petrova",
		"Ethan Brooks", "Fiona Gallagher", "Gus Moreno", "Hana Sato", "Ivan Dimitrov",
		"Julia Ferreira", "Kofi Mensah", "Lena Vogel", "Marco Bianchi", "Nina Eriksen",
		"Omar Haddad", "Priya Sharma", "Ravi Gupta", "Sofia Lindgren", "Tom Hardy",
		"Uma Krishnan", "Victor Hugo", "Wendy Park", "Ximena Cruz", "Yara Aziz",
	}

	successCount := 0
	for i, name := range names {
		parts := strings.SplitN(name, " ", 2)

		student := &model.UserProfile{
			Email:        fmt.Sprintf("student%02d@guidely.dev", i+1),
			FirstName:    parts[0],
			LastName:     parts[1],
			UserType:     model.UserTypeStudent,
			PasswordHash: string(hash),
		}

		if err := userService.Create(ctx, student); err != nil {
			fmt.Printf("Error creating student %s (%s): %v\n", name, student.Email, err)
		} else {
			successCount++
			if (i+1)%10 == 0 {
				fmt.Printf("Created %d students...\n", i+1)
			}
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, len(names))
}
