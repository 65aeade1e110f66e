package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/leettrack/leettrack/internal/problem"
	"github.com/leettrack/leettrack/pkg/database"
	"github.com/leettrack/leettrack/pkg/models"
	_ "modernc.org/sqlite"
)

func main() {
	fmt.Println("=== LeetTrack Catalog Seeder ===")

	// Load environment
	godotenv.Load()

	// Initialize database
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/leettrack.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	store := problem.NewStore(db)

	// Check existing count
	var count int
	db.QueryRow("SELECT COUNT(*) FROM problems").Scan(&count)
	fmt.Printf("Current problem count: %d\n", count)

	source := problem.NewLeetCodeSource()
	ctx := context.Background()

	fmt.Printf("\nSeeding %d curated problems...\n", len(problem.CuratedProblems))
	inserted := 0
	skipped := 0
	enriched := 0

	for _, cp := range problem.CuratedProblems {
		slug := problem.DeriveSlug(cp.URL, cp.Title)

		if _, err := store.GetProblemBySlug(slug); err == nil {
			skipped++
			continue
		}

		req := &models.AddProblemRequest{
			Title:      cp.Title,
			Difficulty: cp.Difficulty,
			Topic:      cp.Topic,
			URL:        cp.URL,
		}

		// Pull full metadata from the problem source; fall back to the
		// curated basics when the source is unreachable.
		data, err := source.Fetch(ctx, slug)
		if err == nil {
			req.Description = data.Description
			req.Examples = data.Examples
			req.Constraints = data.Constraints
			req.StarterCode = data.StarterCode
			enriched++
		} else if !errors.Is(err, problem.ErrUpstream) && !errors.Is(err, problem.ErrNotFound) {
			log.Printf("Fetch error for %s: %v", slug, err)
		}

		if _, err := store.InsertProblem(slug, req); err != nil {
			log.Printf("Insert error for %s: %v", slug, err)
			continue
		}
		inserted++
		fmt.Printf("✓ %s [%s]\n", cp.Title, cp.Difficulty)

		time.Sleep(200 * time.Millisecond)
	}

	fmt.Printf("\n=== Seed Complete ===\n")
	fmt.Printf("Inserted: %d (enriched from source: %d)\n", inserted, enriched)
	fmt.Printf("Skipped (already present): %d\n", skipped)

	// Final count
	db.QueryRow("SELECT COUNT(*) FROM problems").Scan(&count)
	fmt.Printf("Total problems in DB: %d\n", count)
}
