package handlers

import (
	"trailerstore/internal/response"

	"github.com/gofiber/fiber/v2"
)

// APIVersion is reported by the endpoint directory.
const APIVersion = "1.0.0"

// APIHandler serves the health check and the endpoint directory.
type APIHandler struct{}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler() *APIHandler {
	return &APIHandler{}
}

// RegisterRoutes registers the directory under router.
func (h *APIHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleDirectory)
}

// HandleHealth reports that the process is serving requests.
func (h *APIHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"message":   "Trailer Store API is running",
		"timestamp": response.Now(),
	})
}

// HandleDirectory lists the available endpoints.
func (h *APIHandler) HandleDirectory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Trailer Store API",
		"version": APIVersion,
		"endpoints": fiber.Map{
			"trailers": fiber.Map{
				"GET /api/trailers":             "Get all trailers with filtering and pagination",
				"GET /api/trailers/featured":    "Get featured trailers",
				"GET /api/trailers/categories":  "Get all categories with counts",
				"GET /api/trailers/brands":      "Get all brands with counts",
				"GET /api/trailers/search":      "Search trailers",
				"GET /api/trailers/:id":         "Get single trailer by ID or slug",
				"POST /api/trailers":            "Create new trailer",
				"PUT /api/trailers/:id":         "Update trailer",
				"PATCH /api/trailers/:id/stock": "Update trailer stock",
				"DELETE /api/trailers/:id":      "Delete trailer",
			},
		},
		"timestamp": response.Now(),
	})
}
