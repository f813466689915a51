// purge-messages - внепротокольная обслуживающая операция: массовая
// очистка таблицы сообщений. В обычной работе сообщения не удаляются.
package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"freelance_chat/internal/config"
	"freelance_chat/internal/repository"
	"freelance_chat/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level)

	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	messageRepo := repository.NewMessageRepository(dbPool, appLogger)

	purged, err := messageRepo.PurgeAll(context.Background())
	if err != nil {
		appLogger.Fatal("Failed to purge messages", "error", err)
	}

	appLogger.Info("Messages purged", "count", purged)
}
