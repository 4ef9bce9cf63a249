package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/arena-services/configs"
	"github.com/avvvet/arena-services/internal/competesvc/db"
)

// usage: migrate [up|down]
func main() {
	log.SetOutput(os.Stdout)
	config.LoadEnv("migrate")

	dbURL := os.Getenv("POSTGRES_URL")
	if dbURL == "" {
		log.Fatal("POSTGRES_URL is required")
	}

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	switch direction {
	case "up":
		if err := db.MigrateUp(dbURL); err != nil {
			log.Fatal(err)
		}
	case "down":
		if err := db.MigrateDown(dbURL); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown direction %q, expected up or down", direction)
	}
	log.Infof("migrations %s done", direction)
}
