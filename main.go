package main

import (
	"flag"
	"log"

	"github.com/hookwise/hookwise-backend/cmd"

	"github.com/joho/godotenv"
)

func main() {
	shouldRunMigrations := flag.Bool("migrations", false, "Run migrations")
	shouldRunServer := flag.Bool("server", false, "Run API server")
	shouldRunWorker := flag.Bool("worker", false, "Run task queue worker")
	shouldRunScheduler := flag.Bool("scheduler", false, "Run cron scheduler")
	flag.Parse()

	// Missing .env is fine, the environment may be set by the deployment.
	_ = godotenv.Load()

	if *shouldRunMigrations {
		if err := cmd.RunMigrations(); err != nil {
			log.Fatal(err)
		}
	}
	if *shouldRunServer {
		if err := cmd.RunServer(); err != nil {
			log.Fatal(err)
		}
	}
	if *shouldRunWorker {
		if err := cmd.RunWorker(); err != nil {
			log.Fatal(err)
		}
	}
	if *shouldRunScheduler {
		if err := cmd.RunJobScheduler(); err != nil {
			log.Fatal(err)
		}
	}
}
