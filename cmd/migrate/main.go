// Command migrate applies the embedded schema migrations against the
// configured PostgreSQL database.
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/bks/clubcoordinator/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func main() {
	var (
		dsn     = flag.String("db-dsn", os.Getenv("DB_DSN"), "PostgreSQL connection string")
		command = flag.String("command", "up", "Command to run (up, down, version)")
	)
	flag.Parse()

	if *dsn == "" {
		log.Println("a database connection string is required (-db-dsn or DB_DSN)")
		flag.PrintDefaults()
		os.Exit(1)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatalf("cannot read embedded migrations: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, *dsn)
	if err != nil {
		log.Fatalf("cannot create migrate instance: %v", err)
	}
	defer m.Close()

	switch *command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("cannot run migrations: %v", err)
		}
		log.Println("successfully ran migrations up")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("cannot roll back migrations: %v", err)
		}
		log.Println("successfully ran migrations down")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("cannot get version: %v", err)
		}
		log.Printf("current version: %d, dirty: %v", version, dirty)

	default:
		log.Fatalf("unknown command: %s", *command)
	}
}
