package handlers

import (
	"math"

	"trailerstore/internal/apperror"
	"trailerstore/internal/models"
	"trailerstore/internal/repositories"
	"trailerstore/internal/response"
	"trailerstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TrailerHandler handles HTTP requests for trailers.
type TrailerHandler struct {
	service *services.TrailerService
}

// NewTrailerHandler creates a new TrailerHandler.
func NewTrailerHandler(service *services.TrailerService) *TrailerHandler {
	return &TrailerHandler{
		service: service,
	}
}

// RegisterRoutes registers the trailer routes with the Fiber app.
func (h *TrailerHandler) RegisterRoutes(router fiber.Router) {
	trailerRoutes := router.Group("/trailers")
	trailerRoutes.Get("/", h.HandleGetTrailers)
	// Named views go before /:id so they are not taken for identifiers.
	trailerRoutes.Get("/featured", h.HandleGetFeatured)
	trailerRoutes.Get("/categories", h.HandleGetCategories)
	trailerRoutes.Get("/brands", h.HandleGetBrands)
	trailerRoutes.Get("/search", h.HandleSearch)
	trailerRoutes.Get("/:id", h.HandleGetTrailer)
	trailerRoutes.Post("/", h.HandleCreateTrailer)
	trailerRoutes.Put("/:id", h.HandleUpdateTrailer)
	trailerRoutes.Patch("/:id/stock", h.HandleUpdateStock)
	trailerRoutes.Delete("/:id", h.HandleDeleteTrailer)
}

// TrailerPage is the data of a list response.
type TrailerPage struct {
	Trailers   []models.Trailer    `json:"trailers"`
	Pagination services.Pagination `json:"pagination"`
}

// HandleGetTrailers lists trailers with filtering, sorting and pagination.
func (h *TrailerHandler) HandleGetTrailers(c *fiber.Ctx) error {
	query := services.BuildListQuery(listParams(c))
	trailers, pagination, err := h.service.ListTrailers(c.UserContext(), query)
	if err != nil {
		return apperror.Wrap(err, "Failed to retrieve trailers")
	}
	return response.Success(c, TrailerPage{Trailers: nonNil(trailers), Pagination: pagination}, "Trailers retrieved successfully")
}

// HandleGetTrailer retrieves a single trailer by its ID or slug.
func (h *TrailerHandler) HandleGetTrailer(c *fiber.Ctx) error {
	trailer, err := h.service.GetTrailer(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperror.Wrap(err, "Failed to retrieve trailer")
	}
	return response.Success(c, trailer, "Trailer retrieved successfully")
}

// HandleCreateTrailer creates a new trailer.
func (h *TrailerHandler) HandleCreateTrailer(c *fiber.Ctx) error {
	var input services.CreateTrailerInput
	if err := c.BodyParser(&input); err != nil {
		return apperror.MalformedBody(err)
	}

	trailer, err := h.service.CreateTrailer(c.UserContext(), input)
	if err != nil {
		return apperror.Wrap(err, "Failed to create trailer")
	}
	return response.Created(c, trailer, "Trailer created successfully")
}

// HandleUpdateTrailer applies a partial update to a trailer.
func (h *TrailerHandler) HandleUpdateTrailer(c *fiber.Ctx) error {
	var input services.UpdateTrailerInput
	if err := c.BodyParser(&input); err != nil {
		return apperror.MalformedBody(err)
	}

	trailer, err := h.service.UpdateTrailer(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return apperror.Wrap(err, "Failed to update trailer")
	}
	return response.Success(c, trailer, "Trailer updated successfully")
}

// HandleDeleteTrailer deletes a trailer.
func (h *TrailerHandler) HandleDeleteTrailer(c *fiber.Ctx) error {
	if err := h.service.DeleteTrailer(c.UserContext(), c.Params("id")); err != nil {
		return apperror.Wrap(err, "Failed to delete trailer")
	}
	return response.Success(c, nil, "Trailer deleted successfully")
}

// StockRequest is the body of a stock update.
type StockRequest struct {
	Quantity *float64 `json:"quantity"`
}

// HandleUpdateStock sets the quantity of a trailer.
func (h *TrailerHandler) HandleUpdateStock(c *fiber.Ctx) error {
	var req StockRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.MalformedBody(err)
	}
	if req.Quantity == nil || *req.Quantity < 0 || *req.Quantity != math.Trunc(*req.Quantity) || *req.Quantity > math.MaxInt32 {
		return apperror.New(apperror.KindValidation, "Valid quantity is required")
	}

	trailer, err := h.service.UpdateStock(c.UserContext(), c.Params("id"), int(*req.Quantity))
	if err != nil {
		return apperror.Wrap(err, "Failed to update stock")
	}
	return response.Success(c, trailer, "Stock updated successfully")
}

// HandleGetFeatured returns featured trailers that are in stock.
func (h *TrailerHandler) HandleGetFeatured(c *fiber.Ctx) error {
	limit := services.ParsePositiveInt(c.Query("limit"), services.DefaultLimit, services.MaxLimit)
	trailers, err := h.service.FeaturedTrailers(c.UserContext(), limit)
	if err != nil {
		return apperror.Wrap(err, "Failed to retrieve featured trailers")
	}
	return response.Success(c, nonNil(trailers), "Featured trailers retrieved successfully")
}

// HandleGetCategories returns every category with its in-stock count.
func (h *TrailerHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return apperror.Wrap(err, "Failed to retrieve categories")
	}
	return response.Success(c, categories, "Categories retrieved successfully")
}

// HandleGetBrands returns every brand with its in-stock count.
func (h *TrailerHandler) HandleGetBrands(c *fiber.Ctx) error {
	brands, err := h.service.Brands(c.UserContext())
	if err != nil {
		return apperror.Wrap(err, "Failed to retrieve brands")
	}
	if brands == nil {
		brands = []repositories.BrandCount{}
	}
	return response.Success(c, brands, "Brands retrieved successfully")
}

// HandleSearch searches trailers by free text.
func (h *TrailerHandler) HandleSearch(c *fiber.Ctx) error {
	limit := services.ParsePositiveInt(c.Query("limit"), services.DefaultLimit, services.MaxLimit)
	trailers, err := h.service.SearchTrailers(c.UserContext(), c.Query("q"), limit)
	if err != nil {
		return apperror.Wrap(err, "Search failed")
	}
	return response.Success(c, nonNil(trailers), "Search completed successfully")
}

func listParams(c *fiber.Ctx) services.ListParams {
	p := services.ListParams{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		Category:  c.Query("category"),
		Brand:     c.Query("brand"),
		MinPrice:  c.Query("minPrice"),
		MaxPrice:  c.Query("maxPrice"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	args := c.Context().QueryArgs()
	if args.Has("inStock") {
		v := c.Query("inStock")
		p.InStock = &v
	}
	if args.Has("isFeatured") {
		v := c.Query("isFeatured")
		p.IsFeatured = &v
	}
	return p
}

func nonNil(trailers []models.Trailer) []models.Trailer {
	if trailers == nil {
		return []models.Trailer{}
	}
	return trailers
}
