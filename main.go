package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"medistock/m/internal/api"
	"medistock/m/internal/billing"
	"medistock/m/internal/catalog"
	"medistock/m/internal/config"
	"medistock/m/internal/credentials"
	"medistock/m/internal/database"
	"medistock/m/internal/inventory"
	"medistock/m/internal/migrations"
	"medistock/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)

	creds := credentials.New(db)
	seed.EnsureAdmin(creds, cfg.AdminPassword, log)

	store := catalog.New(db)
	inv := inventory.New(store)
	bill := billing.New(inv, log, cfg.BillsDir, cfg.Currency)

	handler := api.New(creds, store, inv, bill, cfg.Secret, log)

	log.WithField("port", cfg.HTTPPort).Info("medistock server starting")
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
