package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"ai-doc-platform-api/internal/config"
	"ai-doc-platform-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting storage bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 打开存储（SQLite 在打开时完成建表）
	store, cleanup, err := wire.InitializeStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}
	defer cleanup()

	// 3. PostgreSQL 需显式迁移
	if store.Postgres != nil {
		fmt.Println("Migrating PostgreSQL schema...")
		if err := store.Postgres.AutoMigrate(ctx); err != nil {
			log.Fatalf("failed to migrate postgres: %v", err)
		}
	}

	if err := store.Health.HealthCheck(ctx); err != nil {
		log.Fatalf("store health check failed: %v", err)
	}

	if store.Driver == config.DriverSQLite {
		fmt.Printf("SQLite schema ready at %s\n", cfg.Database.SQLite.Path)
	} else {
		fmt.Printf("PostgreSQL schema ready at %s:%d/%s\n",
			cfg.Database.Postgres.Host, cfg.Database.Postgres.Port, cfg.Database.Postgres.Database)
	}

	fmt.Println("Bootstrap completed.")
}
