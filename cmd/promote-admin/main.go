package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/fabrikline/wholesale-backend/internal/users"
	"github.com/fabrikline/wholesale-backend/pkg/config"
	"github.com/fabrikline/wholesale-backend/pkg/db"
	"github.com/fabrikline/wholesale-backend/pkg/enums"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "promote-admin"})

	_ = godotenv.Load()

	email := flag.String("email", "", "email of the account to promote")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	repo := users.NewRepository(dbClient.DB())

	user, err := repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(*email)))
	if err != nil {
		logg.Error(ctx, "account lookup failed", err)
		os.Exit(1)
	}

	if user.Role == enums.UserRolePlatformAdmin {
		logg.Info(logg.WithUserID(ctx, user.ID.String()), "account is already a platform admin")
		return
	}

	if err := repo.UpdateRole(ctx, user.ID, enums.UserRolePlatformAdmin); err != nil {
		logg.Error(ctx, "role update failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithUserID(ctx, user.ID.String()), "account promoted to platform admin")
}
