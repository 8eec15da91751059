// Command seed populates a development database with demo profiles, chat
// messages and listings, going straight through the storage layer.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mercadogo/backend/internal/models"
	"mercadogo/backend/internal/storage"
)

func main() {
	godotenv.Load()

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("DB_CONNECTION_STRING environment variable is required")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewService(db, nil) // no redis needed for seeding
	if err := store.Migrate(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	ctx := context.Background()
	usernames := []string{"maria_demo", "pedro_demo", "cata_demo"}
	ids := make([]string, len(usernames))

	for i, name := range usernames {
		id := uuid.New().String()
		ids[i] = id
		n := name
		if err := store.CreateProfile(ctx, &models.Profile{ID: id, Username: &n}); err != nil {
			log.Fatalf("failed to seed profile %s: %v", name, err)
		}
	}

	region := string(models.RegionRM)
	for i, title := range []string{"Bicicleta urbana", "Escritorio de roble", "Guitarra acustica"} {
		l := &models.Listing{
			UserID:      ids[i%len(ids)],
			Username:    usernames[i%len(usernames)],
			Title:       title,
			Address:     "Av. Siempreviva 742",
			Price:       float64(15000 * (i + 1)),
			Description: "En buen estado, retiro en persona.",
			RegionCode:  &region,
		}
		if err := store.CreateListing(ctx, l); err != nil {
			log.Fatalf("failed to seed listing %q: %v", title, err)
		}
	}

	for i, text := range []string{"hola a todos", "alguien vende bicicletas?", "yo! mira mis avisos"} {
		msg := &models.ChatMessage{
			UserID:   ids[i%len(ids)],
			Username: usernames[i%len(usernames)],
			Content:  text,
		}
		if err := store.CreateChatMessage(ctx, msg); err != nil {
			log.Fatalf("failed to seed chat message: %v", err)
		}
	}

	fmt.Printf("seeded %d profiles, 3 listings, 3 chat messages\n", len(usernames))
}
