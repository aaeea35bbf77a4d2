// seed inserts a verified test user and a batch of reminders into the
// local dev database. Run: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mediguide-ai/backend/internal/infrastructure/postgres"
)

const (
	seedEmail = "seed@test.local"
	seedName  = "Seed User"
	seedPhone = "+10000000000"
)

type reminderSpec struct {
	title   string
	message string
	offset  time.Duration // relative to now; negative = already due
}

var reminders = []reminderSpec{
	// Already due — the next sweep should pick these up
	{"Morning pills", "Aspirin 75mg with water", -10 * time.Minute},
	{"Blood pressure check", "Use the arm cuff, sitting down", -2 * time.Hour},
	{"Overdue from yesterday", "Still eligible, no staleness cutoff", -26 * time.Hour},

	// Empty message — delivered with the default placeholder body
	{"Drink water", "", -5 * time.Minute},

	// Future — untouched until their time passes
	{"Evening walk", "30 minutes, easy pace", 4 * time.Hour},
	{"Night medication", "Metformin after dinner", 9 * time.Hour},
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	// Upsert verified test user
	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, email, phone, is_verified)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		seedName, seedEmail, seedPhone,
	).Scan(&userID)
	if err != nil {
		log.Fatalf("seed user: %v", err)
	}
	log.Printf("seed user: %s (%s)", seedEmail, userID)

	now := time.Now()
	for _, r := range reminders {
		_, err := pool.Exec(ctx, `
			INSERT INTO reminders (user_id, title, message, remind_time)
			VALUES ($1, $2, $3, $4)`,
			userID, r.title, r.message, now.Add(r.offset),
		)
		if err != nil {
			log.Fatalf("seed reminder %q: %v", r.title, err)
		}
	}
	log.Printf("seeded %d reminders", len(reminders))
}
