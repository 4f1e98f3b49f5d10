package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	pg "telegram-reminder-bot/internal/infra/db/postgres"
)

// Applies the reminders schema and exits. Meant for CI and first-time setup;
// the app also ensures the schema on boot.
func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres connection string")
	flag.Parse()
	if *dsn == "" {
		log.Fatal("DATABASE_URL or -dsn is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, *dsn, 2)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("schema applied")
}
