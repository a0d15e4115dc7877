package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"BridgingTomoro/internal/appmanager"
	"BridgingTomoro/internal/config"
)

func connString() string {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		user, pass, host, port, name,
	)
}

func main() {
	// Load .env for local dev
	_ = godotenv.Load("../.env")

	manager := appmanager.NewAppManager()

	var db *sql.DB
	var pool *pgxpool.Pool

	if config.OfflineMode() {
		log.Println("[INFO] OFFLINE_MODE set, skipping database pools")
	} else {
		var err error
		db, err = sql.Open("postgres", connString())
		if err != nil {
			log.Fatal("failed to connect to DB:", err)
		}
		appmanager.SetDB(db)

		pool, err = pgxpool.New(context.Background(), connString())
		if err != nil {
			log.Fatal("failed to create pgx pool:", err)
		}
		appmanager.SetPgxPool(pool)
	}

	servicesCfg, err := appmanager.LoadServiceSequence(config.Env("SERVICES_YAML", "../services.yaml"))
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}

	manager.AutoRegisterServices(servicesCfg)

	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}
	if pool != nil {
		pool.Close()
	}
	if db != nil {
		db.Close()
	}
}
