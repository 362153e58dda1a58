package main

import (
	"flag"
	"log"
	"os"

	"farmroute-backend/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	seed := flag.Bool("seed", true, "seed demo users and marketplace data after migrating")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if !*seed {
		log.Println("Migration completed successfully!")
		return
	}

	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := database.SeedMarketplace(db); err != nil {
		log.Fatalf("Marketplace seeding failed: %v", err)
	}

	var summary struct {
		Sellers int `db:"sellers"`
		Orders  int `db:"orders"`
		Active  int `db:"active"`
	}
	err = db.Get(&summary, `
		SELECT
			(SELECT COUNT(*) FROM sellers) AS sellers,
			(SELECT COUNT(*) FROM orders) AS orders,
			(SELECT COUNT(*) FROM orders WHERE status IN ('confirmed', 'out_for_delivery')) AS active
	`)
	if err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	log.Println("============================================================")
	log.Println("MIGRATION SUMMARY")
	log.Printf("Sellers:        %d", summary.Sellers)
	log.Printf("Orders:         %d", summary.Orders)
	log.Printf("Active orders:  %d", summary.Active)
	log.Println("============================================================")
}
