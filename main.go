package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/striveloop/striveloop-api/internal/config"
	"github.com/striveloop/striveloop-api/internal/database"
	"github.com/striveloop/striveloop-api/internal/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := database.SeedAchievements(); err != nil {
		log.Fatalf("Failed to seed achievements: %v", err)
	}

	app := fiber.New()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	routes.Setup(app, cfg)

	log.Fatal(app.Listen(":" + cfg.Port))
}
