package main

import (
	"context"
	"flag"
	"os"

	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/service"
	"go-diamond-ledger/pkg/config"
	"go-diamond-ledger/pkg/database"
	"go-diamond-ledger/pkg/jwt"
	"go-diamond-ledger/pkg/logger"
)

// reset-password sets a new password for an existing user and signs out all
// of their sessions.
//
//	go run ./cmd/reset-password -user admin -password newsecret
func main() {
	userName := flag.String("user", os.Getenv("ADMIN_USERNAME"), "user name to reset")
	password := flag.String("password", os.Getenv("RESET_PASSWORD"), "new password")
	flag.Parse()

	cfg := config.Load()
	log := logger.Get()
	if *userName == "" || *password == "" {
		log.Fatal("both -user and -password are required")
	}

	db := database.ConnectDB(cfg.DatabaseURL)
	auth := service.NewAuthService(repository.NewUserRepo(db), jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL))

	if err := auth.ResetPassword(context.Background(), *userName, *password); err != nil {
		log.Fatalf("Failed to reset password for %s: %v", *userName, err)
	}
	log.Infof("Password for %s has been reset", *userName)
}
