// tokengen выпускает подписанный access-токен для локальной разработки,
// когда внешний auth-сервис не поднят. Не является частью сервиса.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"freelance_chat/internal/config"
	"freelance_chat/pkg/jwt"
)

func main() {
	userIDFlag := flag.String("user", "", "user id (uuid), random if empty")
	emailFlag := flag.String("email", "dev@example.com", "email claim")
	rolesFlag := flag.String("roles", "customer", "comma-separated roles claim")
	ttlFlag := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	userID := uuid.New()
	if *userIDFlag != "" {
		userID, err = uuid.Parse(*userIDFlag)
		if err != nil {
			log.Fatalf("Invalid user id: %v", err)
		}
	}

	token, err := jwt.GenerateAccessToken(userID, *emailFlag, strings.Split(*rolesFlag, ","),
		cfg.JWT.Secret, cfg.JWT.Issuer, *ttlFlag)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Printf("user_id: %s\n", userID)
	fmt.Println(token)
}
