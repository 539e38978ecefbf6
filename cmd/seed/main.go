package main

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"carteira/internal/auth"
	"carteira/internal/config"
	"carteira/internal/db"
	"carteira/internal/model"
	"carteira/internal/repository"
)

// seedUser describes an account created by the seed script.
type seedUser struct {
	Email    string
	Password string
	Admin    bool
	Balance  string
}

var seedUsers = []seedUser{
	{Email: "usuario.teste@exemplo.com", Password: "senha-teste", Balance: "50.00"},
	{Email: "admin@exemplo.com", Password: "senha-admin", Admin: true, Balance: "0.00"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Document{}, &model.TransportCard{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	cards := repository.NewTransportCardRepository(gormDB)
	hasher := auth.NewPasswordHasher()

	created := 0
	skipped := 0
	for _, item := range seedUsers {
		if _, err := users.FindByEmail(ctx, item.Email); err == nil {
			log.Printf("Skipping existing user: %s", item.Email)
			skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to look up user %s: %v", item.Email, err)
		}

		hash, err := hasher.Hash(item.Password)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", item.Email, err)
		}

		balance, err := decimal.NewFromString(item.Balance)
		if err != nil {
			log.Fatalf("Invalid seed balance for %s: %v", item.Email, err)
		}

		user := &model.User{
			Email:        item.Email,
			PasswordHash: hash,
			Active:       true,
			Admin:        item.Admin,
			AuthProvider: model.ProviderLocal,
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", item.Email, err)
		}

		card := &model.TransportCard{UserID: user.ID, Balance: balance}
		if err := cards.Create(ctx, card); err != nil {
			log.Fatalf("Failed to create transport card for %s: %v", item.Email, err)
		}

		log.Printf("Seeded user %s with balance %s", item.Email, balance.StringFixed(2))
		created++
	}

	log.Printf("Seed completed: %d created, %d skipped", created, skipped)
}
