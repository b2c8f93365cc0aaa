// Command tokengen issues an access token for a user so the API can be
// exercised from curl during development.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"library-lending-backend/internal/config"
	"library-lending-backend/internal/security"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	envFile := flag.String("env", "", "Optional .env file loaded before the configuration")
	userID := flag.Int64("user", 0, "User id to issue the token for")
	email := flag.String("email", "", "Email recorded in the token")
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("Failed to load env file: %v", err)
		}
	}
	if *userID <= 0 {
		log.Fatalf("-user must be a positive id")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	tm := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	token, err := tm.GenerateAccessToken(*userID, *email)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}
