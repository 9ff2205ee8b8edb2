// Command migrate applies the database schema migrations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/ahughesmx/ace-booking-system-sub001/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "config.toml", "path to config.toml")
		sourcePath = flag.String("source", "file://migrations", "migrations source URL")
		down       = flag.Bool("down", false, "roll back all migrations instead of applying them")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.DBName, cfg.Database.SSLMode,
	)

	m, err := migrate.New(*sourcePath, dsn)
	if err != nil {
		fmt.Printf("Failed to initialize migrations: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migrations to apply")
			return
		}
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}

	version, dirty, err := m.Version()
	if err != nil {
		fmt.Printf("Migrations applied, version unknown: %v\n", err)
		return
	}
	fmt.Printf("Migrations applied, version=%d dirty=%v\n", version, dirty)
}
