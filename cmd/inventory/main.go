package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/rl1809/stock-reserve/internal/adapter/handler"
	"github.com/rl1809/stock-reserve/internal/adapter/storage"
	"github.com/rl1809/stock-reserve/internal/config"
	"github.com/rl1809/stock-reserve/internal/core/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mysql")
	}
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping mysql")
	}
	log.Info().Msg("connected to mysql")

	ledger := storage.NewMySQLStockLedger(db)
	inventoryService := service.NewInventoryService(ledger)

	mux := http.NewServeMux()
	handler.NewInventoryHandler(inventoryService).Register(mux)

	server := &http.Server{
		Addr:    cfg.Inventory.Addr,
		Handler: mux,
	}

	go func() {
		log.Info().Str("addr", cfg.Inventory.Addr).Msg("inventory service listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)

	db.Close()
	log.Info().Msg("inventory service stopped")
}
