package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/rl1809/stock-reserve/internal/adapter/handler"
	"github.com/rl1809/stock-reserve/internal/adapter/inventory"
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

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	log.Info().Msg("connected to redis")

	orderLedger := storage.NewMySQLOrderLedger(db)
	idempotency := storage.NewRedisIdempotencyStore(rdb)
	inventoryClient := inventory.NewClient(cfg.Order.InventoryURL, cfg.Order.InventoryTimeout)

	orderService := service.NewOrderService(inventoryClient, orderLedger, idempotency)

	mux := http.NewServeMux()
	handler.NewOrderHandler(orderService, cfg.Order.AuthToken).Register(mux)

	server := &http.Server{
		Addr:    cfg.Order.Addr,
		Handler: mux,
	}

	go func() {
		log.Info().Str("addr", cfg.Order.Addr).Msg("order coordinator listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Order.ShutdownTimeout)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)

	rdb.Close()
	db.Close()
	log.Info().Msg("order coordinator stopped")
}
