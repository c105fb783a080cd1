package cmd

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"github.com/walshy828/dodgeball-sale/common/contract"
	"github.com/walshy828/dodgeball-sale/common/errs"
	"github.com/walshy828/dodgeball-sale/common/password"
	"github.com/walshy828/dodgeball-sale/model"
	"github.com/walshy828/dodgeball-sale/outbound/postgres"
)

func runMigrateCmd(ctx context.Context) {
	cfg := newCfg("env")

	cacheClient := newRedis(cfg)
	defer cacheClient.Close()

	db := newDb(cfg)
	defer db.Close()

	stores := newStore(cfg, db, cacheClient)

	// the redis backend is schemaless; only postgres carries DDL
	if st, ok := stores.Orders.(*postgres.Store); ok {
		if err := st.Migrate(ctx); err != nil {
			log.Fatalln("unable to run migrations", err)
		}
		slog.Info("schema migrated")
	}

	if adminPassword := cfg.GetString("admin.password"); adminPassword != "" {
		if err := seedAdminCredential(ctx, stores.Credentials, adminPassword); err != nil {
			log.Fatalln("unable to seed admin credential", err)
		}
	}

	if cfg.GetBool("catalog.seed_defaults") {
		if err := seedCatalog(ctx, stores.Catalog); err != nil {
			log.Fatalln("unable to seed catalog", err)
		}
	}
}

// seedCatalog loads a starter menu into an empty catalog so a fresh stand has
// something to sell. A catalog with any items at all is left alone.
func seedCatalog(ctx context.Context, catalog contract.CatalogStore) error {
	existing, err := catalog.ListItems(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("catalog already populated, skipping seed")
		return nil
	}

	starters := []model.CatalogItemRequest{
		{Tab: model.TabConcessions, Category: "Food", Name: "Pizza Slice", DataName: "pizza-slice", Price: 300, OrderIndex: 1},
		{Tab: model.TabConcessions, Category: "Drinks", Name: "Water", DataName: "water", Price: 200, OrderIndex: 1},
		{Tab: model.TabRaffles, Category: "Tickets", Name: "Raffle Ticket", DataName: "raffle-ticket", Price: 100, OrderIndex: 1},
	}

	for i := range starters {
		starters[i].ApplyDefaults()
		if _, err := catalog.CreateItem(ctx, starters[i]); err != nil {
			return err
		}
	}

	slog.Info("catalog seeded", slog.Int("items", len(starters)))
	return nil
}

// seedAdminCredential derives and stores the admin credential unless one is
// already in place; an existing credential is never silently replaced.
func seedAdminCredential(ctx context.Context, creds contract.CredentialStore, adminPassword string) error {
	_, err := creds.LoadCredential(ctx)
	if err == nil {
		slog.Info("admin credential already configured, skipping seed")
		return nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	salt, hash, err := password.Derive(adminPassword)
	if err != nil {
		return err
	}

	if err := creds.SaveCredential(ctx, model.AdminCredential{Salt: salt, Hash: hash}); err != nil {
		return err
	}

	slog.Info("admin credential seeded")
	return nil
}
