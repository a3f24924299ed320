// Command main runs the database seeder for AURA.
package main

import (
	"flag"
	"log"

	"aura/internal/config"
	"aura/internal/database"
	"aura/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 25, "Number of users to create")
	numObras := flag.Int("obras", 60, "Number of obras to create")
	numTomos := flag.Int("tomos", 12, "Number of tomos to create")
	numContenido := flag.Int("contenido", 20, "Number of exclusive-content items to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d obras, %d tomos, %d contenido, clean=%v\n",
		*numUsers, *numObras, *numTomos, *numContenido, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Seed(seed.Options{
		NumUsers:     *numUsers,
		NumObras:     *numObras,
		NumTomos:     *numTomos,
		NumContenido: *numContenido,
		ShouldClean:  *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done. Test users have the password: password123")
}
