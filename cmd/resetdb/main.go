// Command resetdb drops the configurator tables and re-seeds the catalog.
package main

import (
	"log"

	"customcars/internal/config"
	"customcars/internal/repos"
)

func main() {
	cfg := config.Load()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := repos.Reset(db); err != nil {
		log.Fatalf("reset: %v", err)
	}
	log.Printf("[resetdb] %s database reset and seeded", db.DriverName())
}
