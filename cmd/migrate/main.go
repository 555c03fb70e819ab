package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"musiccatalog/internal/config"
	"musiccatalog/internal/database"
	"musiccatalog/internal/migrations"
	"musiccatalog/internal/store"
)

func main() {
	if len(os.Args) != 2 || (os.Args[1] != "up" && os.Args[1] != "down" && os.Args[1] != "version") {
		log.Fatal("Usage: migrate [up|down|version]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dialect, err := store.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Fatal(err)
	}

	db, err := openDatabase(dialect, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := migrations.Up(db, dialect); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Migrations applied successfully")
	case "down":
		if err := migrations.Down(db, dialect); err != nil {
			log.Fatalf("Failed to rollback migrations: %v", err)
		}
		log.Println("Migrations rolled back successfully")
	case "version":
		version, dirty, err := migrations.Version(db, dialect)
		if err != nil {
			log.Fatalf("Failed to read migration version: %v", err)
		}
		log.Printf("Schema version %d (dirty=%t)", version, dirty)
	}
}

// openDatabase connects with lib/pq for Postgres and modernc.org/sqlite otherwise.
func openDatabase(dialect store.Dialect, cfg config.DatabaseConfig) (*sql.DB, error) {
	driver, dsn := "postgres", cfg.DSN()
	if dialect == store.SQLite {
		driver, dsn = dialect.DriverName(), database.SQLiteDSN(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dialect == store.SQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
