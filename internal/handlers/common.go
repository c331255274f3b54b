package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/striveloop/striveloop-api/internal/config"
)

var cfg *config.Config

// Init wires the loaded config into the handler package.
func Init(c *config.Config) {
	cfg = c
}

// pagination reads page/limit query params, clamped the same way everywhere.
func pagination(c *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit
}
