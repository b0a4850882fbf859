// Command admintoken prints a signed admin token for the tournament API.
//
//	JWT_SECRET_KEY=... go run ./cmd/admintoken -sub coordinator -ttl 12h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Dosada05/school-tournament/middleware"
	"github.com/joho/godotenv"
)

func main() {
	sub := flag.String("sub", "admin", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY environment variable is not set")
		os.Exit(1)
	}

	token, err := middleware.IssueToken([]byte(secret), *sub, middleware.RoleAdmin, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
