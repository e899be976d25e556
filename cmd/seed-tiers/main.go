package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/fabrikline/wholesale-backend/internal/pricing"
	"github.com/fabrikline/wholesale-backend/pkg/config"
	"github.com/fabrikline/wholesale-backend/pkg/db"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

// seedFile maps SKU codes to their volume tier ladders, e.g.
//
//	{"TSHIRT-BLK-M": [{"min_qty": 10, "price": "8.50"}]}
type seedFile map[string][]pricing.TierInput

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed-tiers"})

	_ = godotenv.Load()

	path := flag.String("file", "tiers.json", "JSON file with tier ladders per SKU code")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		logg.Error(ctx, "failed to read seed file", err)
		os.Exit(1)
	}

	var seeds seedFile
	if err := json.Unmarshal(raw, &seeds); err != nil {
		logg.Error(ctx, "failed to parse seed file", err)
		os.Exit(1)
	}
	if len(seeds) == 0 {
		fmt.Fprintln(os.Stderr, "seed file contains no SKUs")
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	svc, err := pricing.NewService(pricing.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(ctx, "failed to create pricing service", err)
		os.Exit(1)
	}

	failed := 0
	for skuCode, tiers := range seeds {
		if _, err := svc.ReplaceTiers(ctx, skuCode, tiers); err != nil {
			failed++
			logg.Error(logg.WithField(ctx, "sku_code", skuCode), "tier seed failed", err)
			continue
		}
		logg.Info(logg.WithFields(ctx, map[string]any{"sku_code": skuCode, "tiers": len(tiers)}), "tier ladder replaced")
	}

	if failed > 0 {
		logg.Error(logg.WithField(ctx, "failed", failed), "seed finished with failures", nil)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "skus", len(seeds)), "seed complete")
}
