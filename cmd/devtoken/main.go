// Package main 签发本地调试用的 Bearer Token
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"ai-doc-platform-api/internal/config"
	"ai-doc-platform-api/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	userID := flag.StringP("user", "u", "dev-user", "token subject (user id)")
	ttl := flag.DurationP("ttl", "t", 0, "token lifetime, defaults to security.jwt.expiration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Security.JWT.Secret == "" {
		log.Fatal("security.jwt.secret is empty")
	}

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.Security.JWT.Expiration
	}
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	token, err := utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer).GenerateToken(*userID, lifetime)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Fprintln(os.Stdout, token)
}
