package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"neuroportal/internal/catalog"
	catalogfixtures "neuroportal/internal/catalog/fixtures"
	"neuroportal/internal/payment"
	paymentfixtures "neuroportal/internal/payment/fixtures"
	"neuroportal/internal/platform/config"
	"neuroportal/internal/platform/logger"
	"neuroportal/internal/platform/postgres"
	"neuroportal/internal/specialists"
	specialistfixtures "neuroportal/internal/specialists/fixtures"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load fixture content into the configured Postgres database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context())
		},
	}
}

func runSeed(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("seed requires POSTGRES_DSN to be set")
	}
	log := logger.New()

	db, err := postgres.Open(cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	content, err := catalogfixtures.Load()
	if err != nil {
		return err
	}
	profiles, err := specialistfixtures.Load()
	if err != nil {
		return err
	}
	members, err := paymentfixtures.Load()
	if err != nil {
		return err
	}
	for i := range members {
		if members[i].Currency == "" {
			members[i].Currency = cfg.Payment.Currency
		}
	}

	if err := catalog.NewPostgresStore(db).Seed(ctx, content.Events, content.Webinars, content.Publications, content.Resources, content.Videos); err != nil {
		return err
	}
	if err := specialists.NewPostgresStore(db).Seed(ctx, profiles); err != nil {
		return err
	}
	if err := payment.NewPostgresDirectory(db).Seed(ctx, members); err != nil {
		return err
	}

	log.Info("seed complete",
		"events", len(content.Events),
		"webinars", len(content.Webinars),
		"publications", len(content.Publications),
		"resources", len(content.Resources),
		"videos", len(content.Videos),
		"specialists", len(profiles),
		"members", len(members),
	)
	return nil
}
