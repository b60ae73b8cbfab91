package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"leadsmanager/internal/auth"
	"leadsmanager/internal/config"
	"leadsmanager/internal/db"
	"leadsmanager/internal/model"
	"leadsmanager/internal/repository"
	"leadsmanager/internal/service"
)

// SeedLead represents one lead entry in the fixture file.
type SeedLead struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Note      string `json:"note"`
}

// SeedUser represents one user entry in the fixture file, with the leads to
// create under that user.
type SeedUser struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Leads    []SeedLead `json:"leads"`
}

func main() {
	fixturePath := flag.String("fixture", "seed.json", "path to the JSON seed fixture")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Lead{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	users, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}
	log.Printf("Loaded %d users from %s", len(users), *fixturePath)

	userRepo := repository.NewUserRepository(gormDB)
	leadRepo := repository.NewLeadRepository(gormDB)
	authService := service.NewAuthService(userRepo, auth.NewJWTService(cfg.JWTSecret))
	leadService := service.NewLeadService(leadRepo, nil)

	ctx := context.Background()
	created, existing, leads, err := seed(ctx, authService, leadService, userRepo, users)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users reused: %d", existing)
	log.Printf("  - Leads created: %d", leads)
}

// loadFixture reads and parses the seed fixture file.
func loadFixture(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var users []SeedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse fixture JSON: %w", err)
	}
	return users, nil
}

// seed registers each fixture user (reusing already-registered emails) and
// creates their leads through the regular service layer, so seeded data obeys
// the same rules as API-created data.
func seed(
	ctx context.Context,
	authService service.AuthService,
	leadService service.LeadService,
	userRepo repository.UserRepository,
	users []SeedUser,
) (created, existing, leads int, err error) {
	for _, entry := range users {
		user, regErr := authService.Register(ctx, entry.Email, entry.Password)
		switch regErr {
		case nil:
			created++
		case service.ErrEmailTaken:
			user, err = userRepo.FindByEmail(ctx, entry.Email)
			if err != nil {
				return created, existing, leads, fmt.Errorf("look up existing user %s: %w", entry.Email, err)
			}
			existing++
		default:
			return created, existing, leads, fmt.Errorf("register user %s: %w", entry.Email, regErr)
		}

		for _, l := range entry.Leads {
			_, err := leadService.Create(ctx, user.ID, service.LeadFields{
				FirstName: l.FirstName,
				LastName:  l.LastName,
				Email:     l.Email,
				Company:   l.Company,
				Note:      l.Note,
			})
			if err != nil {
				return created, existing, leads, fmt.Errorf("create lead for %s: %w", entry.Email, err)
			}
			leads++
		}
	}

	return created, existing, leads, nil
}
