package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"carsearch/internal/model"
	"carsearch/internal/service"
)

// RESTHandler exposes the catalog operations over plain HTTP, mirroring the
// protocol actions for clients that don't hold a socket open.
type RESTHandler struct {
	repo   CatalogRepository
	logger *zap.Logger
}

// NewRESTHandler creates the REST surface.
func NewRESTHandler(repo CatalogRepository, logger *zap.Logger) *RESTHandler {
	return &RESTHandler{repo: repo, logger: logger}
}

// SearchRequest is the REST search payload.
type SearchRequest struct {
	Filters  map[string]any `json:"filters"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Ordering string         `json:"ordering"`
}

// Search handles POST /api/v1/search
func (h *RESTHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "error_code": model.CodeInvalidJSON})
		return
	}

	filters := model.FiltersFromMap(service.NormalizeRawFilters(req.Filters))
	page := model.Pagination{Page: req.Page, PageSize: req.PageSize, Ordering: req.Ordering}

	result, err := h.repo.SearchCars(c.Request.Context(), filters, page)
	if err != nil {
		h.logger.Error("search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "car search failed", "error_code": model.CodeSearchError})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCar handles GET /api/v1/cars/:id
func (h *RESTHandler) GetCar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "car not found", "error_code": model.CodeCarNotFound})
		return
	}

	car, err := h.repo.GetCarByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("car lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch car", "error_code": model.CodeCarDetailsError})
		return
	}
	if car == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "car not found", "error_code": model.CodeCarNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"car": car})
}

// ListBrands handles GET /api/v1/brands
func (h *RESTHandler) ListBrands(c *gin.Context) {
	brands, err := h.repo.ListBrands(c.Request.Context())
	if err != nil {
		h.logger.Error("brand listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch brands", "error_code": model.CodeBrandsError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

// ListColors handles GET /api/v1/colors
func (h *RESTHandler) ListColors(c *gin.Context) {
	colors, err := h.repo.ListColors(c.Request.Context())
	if err != nil {
		h.logger.Error("color listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch colors", "error_code": model.CodeColorsError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"colors": colors})
}

// ListEngines handles GET /api/v1/engines
func (h *RESTHandler) ListEngines(c *gin.Context) {
	engines, err := h.repo.ListEngines(c.Request.Context())
	if err != nil {
		h.logger.Error("engine listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch engines", "error_code": model.CodeEnginesError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"engines": engines})
}

// FilterOptions handles GET /api/v1/filters/options
func (h *RESTHandler) FilterOptions(c *gin.Context) {
	opts, err := h.repo.GetFilterOptions(c.Request.Context())
	if err != nil {
		h.logger.Error("filter options failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch filter options", "error_code": model.CodeFilterOptions})
		return
	}
	c.JSON(http.StatusOK, opts)
}

// Health handles GET /health
func (h *RESTHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
