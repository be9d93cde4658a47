package main

import (
	"context"
	"fmt"
	"intake/database"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" || databaseURL == "memory" {
		log.Fatal("DATABASE_URL must point at a postgres database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatal("Failed to connect:", err)
	}
	defer conn.Close(context.Background())

	if err := database.Migrate(ctx, conn); err != nil {
		log.Fatal(err)
	}

	fmt.Println("\nAll migrations completed!")
}
