package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"go-estoque-condo/internal/config"
	"go-estoque-condo/internal/store"
	"go-estoque-condo/pkg/password"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	identifier := flag.String("identifier", "", "username or email of the account (defaults to the configured admin)")
	newPassword := flag.String("password", "", "new password to store")
	hashLegacy := flag.Bool("hash-legacy", false, "hash every remaining plaintext password instead of resetting one account")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Setup Database
	provider, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer provider.Close()

	ctx := context.Background()
	hasher := password.NewBcrypt(cfg.Security.BcryptCost)

	if *hashLegacy {
		migrated, err := hashLegacyPasswords(ctx, provider, hasher)
		if err != nil {
			log.Fatalf("hash legacy passwords: %v", err)
		}
		log.Printf("Hashed %d legacy password(s)", migrated)
		return
	}

	if *newPassword == "" {
		log.Fatal("-password is required")
	}
	if *identifier == "" {
		*identifier = cfg.Auth.AdminUsername
	}

	// 3. Find the account
	user, err := provider.Users().FindByIdentifier(ctx, *identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("User %s not found", *identifier)
	}
	if err != nil {
		log.Fatalf("find user: %v", err)
	}

	// 4. Hash and store, ending every open session
	hashed, err := hasher.Hash(*newPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	if err := provider.Users().UpdatePassword(ctx, user.ID, hashed); err != nil {
		log.Fatalf("update password: %v", err)
	}
	if err := provider.Users().UpdateTokenVersion(ctx, user.ID, ""); err != nil {
		log.Fatalf("end sessions: %v", err)
	}

	log.Printf("Password for %s has been reset", user.Username)
}

// hashLegacyPasswords replaces plaintext secrets with their hash. Empty
// passwords are left alone.
func hashLegacyPasswords(ctx context.Context, p store.Provider, hasher password.Hasher) (int, error) {
	users, err := p.Users().FindAll(ctx)
	if err != nil {
		return 0, err
	}
	migrated := 0
	for _, u := range users {
		if u.Password == "" || password.IsHashed(u.Password) {
			continue
		}
		hashed, err := hasher.Hash(u.Password)
		if err != nil {
			return migrated, err
		}
		ok, err := p.Users().ReplacePassword(ctx, u.ID, u.Password, hashed)
		if err != nil {
			return migrated, err
		}
		if ok {
			migrated++
		}
	}
	return migrated, nil
}
