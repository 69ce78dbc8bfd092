package main

import (
	"context"
	"log"

	"attendance/internal/config"
	"attendance/internal/ledger"
	"attendance/internal/roster"
	"attendance/internal/seed"
	"attendance/internal/store"
)

// Seeder replaces existing data with a mock roster and a month of
// attendance. Intended for demos and local development only.
func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	// Clear existing data so reseeding is repeatable.
	if _, err := db.Client.ExecContext(ctx, `DELETE FROM attendance`); err != nil {
		log.Fatalf("clear attendance failed: %v", err)
	}
	if _, err := db.Client.ExecContext(ctx, `DELETE FROM students`); err != nil {
		log.Fatalf("clear students failed: %v", err)
	}

	rosterSvc := roster.NewService(roster.NewRepository(db.Client))
	ledgerSvc := ledger.NewService(ledger.NewRepository(db.Client))

	if err := seed.Run(ctx, rosterSvc, ledgerSvc, seed.Options{
		Students: cfg.SeedStudents,
		Days:     cfg.SeedDays,
	}); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	log.Printf("seeded %d students with %d days of attendance", cfg.SeedStudents, cfg.SeedDays)
}
