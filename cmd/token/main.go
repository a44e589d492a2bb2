// Command token issues an admin API bearer token for an existing staff user.
//
//	token -email admin@acme.example
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"limo/internal/app"
	"limo/internal/auth"
	"limo/internal/config"
	"limo/internal/repository/postgres"
	"limo/internal/service"
)

func main() {
	cfg := config.Load()

	var (
		email string
		ttl   time.Duration
	)
	flag.StringVar(&email, "email", "", "Email of an ADMIN or SUPER_ADMIN user")
	flag.DurationVar(&ttl, "ttl", cfg.Auth.TokenTTL, "Token lifetime")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if email == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := app.NewDatabase(ctx, cfg.Database, nil)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	tokens, err := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, ttl)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize auth")
	}

	sessions := service.NewSessionService(postgres.NewUserRepository(db), tokens)
	token, user, err := sessions.IssueToken(ctx, email)
	if err != nil {
		logger.WithError(err).WithField("email", email).Fatal("failed to issue token")
	}

	logger.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"role":      user.Role,
		"tenant_id": user.TenantID,
		"expires":   time.Now().Add(ttl).UTC().Format(time.RFC3339),
	}).Info("token issued")
	fmt.Println(token)
}
