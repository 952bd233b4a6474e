// migrate applies or rolls back the embedded schema migrations.
// Run: go run ./cmd/migrate [up|down|version]
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/blog-platform/internal/infrastructure/postgres"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if err := run(dbURL, cmd); err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func run(dbURL, cmd string) error {
	m, err := postgres.NewMigrator(dbURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Printf("close migrator: %v", err)
		}
	}()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
	default:
		return fmt.Errorf("unknown command (want up, down or version)")
	}
	if err != nil {
		return err
	}

	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Printf("schema version %d (dirty=%v)\n", v, dirty)
	return nil
}
