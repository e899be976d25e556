package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/fabrikline/wholesale-backend/internal/companies"
	"github.com/fabrikline/wholesale-backend/pkg/config"
	"github.com/fabrikline/wholesale-backend/pkg/db"
	"github.com/fabrikline/wholesale-backend/pkg/enums"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "export-companies"})

	_ = godotenv.Load()

	out := flag.String("out", "", "output file path (default stdout)")
	rawStatus := flag.String("status", "", "optional status filter: pending|active|suspended")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	var status *enums.CompanyStatus
	if *rawStatus != "" {
		parsed, err := enums.ParseCompanyStatus(*rawStatus)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -status: %v\n", err)
			os.Exit(1)
		}
		status = &parsed
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	svc, err := companies.NewService(companies.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create company service", err)
		os.Exit(1)
	}

	var dest io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logg.Error(ctx, "failed to create output file", err)
			os.Exit(1)
		}
		defer f.Close()
		dest = f
	}

	count, err := svc.ExportCSV(ctx, dest, status)
	if err != nil {
		logg.Error(ctx, "export failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "rows", count), "export complete")
}
