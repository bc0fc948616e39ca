package main

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"

	"github.com/minishop/minishop/internal/config"
	"github.com/minishop/minishop/internal/db"
)

func main() {
	cfg := config.Load()

	database, err := db.NewPostgresDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	projectRoot, err := getProjectRoot()
	if err != nil {
		log.Fatalf("Failed to locate project root: %v", err)
	}

	migrations := []string{
		"001_create_products.sql",
		"002_create_orders.sql",
		"003_create_order_details.sql",
		"100_sample_data.sql",
	}

	applied := 0
	for _, migration := range migrations {
		path := filepath.Join(projectRoot, "migrations", migration)
		if err := apply(database.Conn, path); err != nil {
			log.Printf("❌ Migration %s failed: %v", migration, err)
		} else {
			log.Printf("✅ Applied migration: %s", migration)
			applied++
		}
	}
	log.Printf("✅ Applied %d of %d migrations", applied, len(migrations))
}

func apply(conn *sql.DB, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	_, err = conn.Exec(string(content))
	return err
}

// getProjectRoot walks up from the working directory until it finds go.mod.
func getProjectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd, nil
		}

		parent := filepath.Dir(wd)
		if parent == wd {
			return "", os.ErrNotExist
		}
		wd = parent
	}
}
