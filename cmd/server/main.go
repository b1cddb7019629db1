package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"github.com/finanzaspro/credit-ledger/internal/api"
	"github.com/finanzaspro/credit-ledger/internal/config"
	"github.com/finanzaspro/credit-ledger/internal/events/kafka"
	"github.com/finanzaspro/credit-ledger/internal/interfaces"
	"github.com/finanzaspro/credit-ledger/internal/ledger"
	"github.com/finanzaspro/credit-ledger/internal/storage/memory"
	"github.com/finanzaspro/credit-ledger/internal/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg)

	var store interfaces.LedgerStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("open database")
		}
		defer db.Close()

		pgStore := postgres.NewPostgresLedgerStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := pgStore.Migrate(ctx); err != nil {
			cancel()
			log.WithError(err).Fatal("migrate database")
		}
		cancel()
		store = pgStore
		log.Info("using postgres store")
	} else {
		store = memory.NewMemoryLedgerStore()
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.WithField("brokers", cfg.KafkaBrokers).Info("kafka publishing enabled")
	}

	engine := ledger.NewEngine(store, log, cfg.BusinessName)
	server := api.NewServer(engine, publisher, log)

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("starting server")
	if err := http.ListenAndServe(addr, server.Handler()); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
