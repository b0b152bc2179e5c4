package handler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carsearch/internal/model"
	"carsearch/internal/service"
)

// CatalogRepository is the catalog surface the protocol needs.
type CatalogRepository interface {
	SearchCars(ctx context.Context, filters *model.CarFilters, page model.Pagination) (*model.SearchPage, error)
	GetCarByID(ctx context.Context, id uuid.UUID) (*model.CarDetail, error)
	ListBrands(ctx context.Context) ([]model.BrandCount, error)
	ListColors(ctx context.Context) ([]model.ColorCount, error)
	ListEngines(ctx context.Context) ([]model.EngineCount, error)
	GetFilterOptions(ctx context.Context) (*model.FilterOptions, error)
}

// MCPDispatcher routes protocol requests to catalog operations through a
// static action table.
type MCPDispatcher struct {
	repo    CatalogRepository
	logger  *zap.Logger
	actions map[string]actionFunc
	counter atomic.Uint64
}

type actionFunc func(ctx context.Context, requestID string, data map[string]any) *model.Response

// NewMCPDispatcher builds the dispatcher with its fixed action table.
func NewMCPDispatcher(repo CatalogRepository, logger *zap.Logger) *MCPDispatcher {
	d := &MCPDispatcher{repo: repo, logger: logger}
	d.actions = map[string]actionFunc{
		model.ActionSearchCars:       d.handleSearchCars,
		model.ActionGetBrands:        d.handleGetBrands,
		model.ActionGetColors:        d.handleGetColors,
		model.ActionGetEngines:       d.handleGetEngines,
		model.ActionGetCarDetails:    d.handleGetCarDetails,
		model.ActionGetFilterOptions: d.handleGetFilterOptions,
	}
	return d
}

// Handle processes one protocol request. It always returns a response frame;
// anything that goes wrong becomes an error envelope carrying the request's
// correlation id.
func (d *MCPDispatcher) Handle(ctx context.Context, req *model.Request) (resp *model.Response) {
	requestID := req.RequestID
	if requestID == "" {
		requestID = d.nextRequestID()
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic in request handler",
				zap.Any("panic", r),
				zap.String("request_id", requestID))
			resp = model.NewError(requestID,
				fmt.Sprintf("error processing request: %v", r),
				model.CodeRequestProcessing)
		}
	}()

	if req.Type != model.FrameRequest {
		return model.NewError(requestID,
			fmt.Sprintf("invalid request type: %q", req.Type),
			model.CodeInvalidRequest)
	}

	action := req.Action()
	if action == "" {
		return model.NewError(requestID, "request data must include an action", model.CodeInvalidRequest)
	}

	handler, ok := d.actions[action]
	if !ok {
		return model.NewError(requestID,
			fmt.Sprintf("action %q is not supported", action),
			model.CodeUnsupportedAction)
	}

	return handler(ctx, requestID, req.Data)
}

// nextRequestID synthesizes a correlation id for requests that omit one.
func (d *MCPDispatcher) nextRequestID() string {
	return fmt.Sprintf("req_%d_%d", time.Now().UTC().UnixMilli(), d.counter.Add(1))
}

// reservedDataKeys are protocol fields in a search payload, not filters.
var reservedDataKeys = map[string]bool{
	"action":     true,
	"request_id": true,
	"page":       true,
	"page_size":  true,
	"ordering":   true,
	"filters":    true,
}

func (d *MCPDispatcher) handleSearchCars(ctx context.Context, requestID string, data map[string]any) *model.Response {
	raw := map[string]any{}
	for key, value := range data {
		if !reservedDataKeys[key] {
			raw[key] = value
		}
	}
	// Filters may also arrive nested; nested values win.
	if nested, ok := data["filters"].(map[string]any); ok {
		for key, value := range nested {
			raw[key] = value
		}
	}

	filters := model.FiltersFromMap(service.NormalizeRawFilters(raw))
	page := model.Pagination{
		Page:     intField(data, "page", 1),
		PageSize: intField(data, "page_size", 20),
		Ordering: stringField(data, "ordering"),
	}

	result, err := d.repo.SearchCars(ctx, filters, page)
	if err != nil {
		d.logger.Error("search failed", zap.Error(err), zap.String("request_id", requestID))
		return model.NewError(requestID, fmt.Sprintf("car search failed: %v", err), model.CodeSearchError)
	}
	return model.NewResponse(requestID, result)
}

func (d *MCPDispatcher) handleGetBrands(ctx context.Context, requestID string, _ map[string]any) *model.Response {
	brands, err := d.repo.ListBrands(ctx)
	if err != nil {
		return model.NewError(requestID, fmt.Sprintf("failed to fetch brands: %v", err), model.CodeBrandsError)
	}
	return model.NewResponse(requestID, map[string]any{"brands": brands})
}

func (d *MCPDispatcher) handleGetColors(ctx context.Context, requestID string, _ map[string]any) *model.Response {
	colors, err := d.repo.ListColors(ctx)
	if err != nil {
		return model.NewError(requestID, fmt.Sprintf("failed to fetch colors: %v", err), model.CodeColorsError)
	}
	return model.NewResponse(requestID, map[string]any{"colors": colors})
}

func (d *MCPDispatcher) handleGetEngines(ctx context.Context, requestID string, _ map[string]any) *model.Response {
	engines, err := d.repo.ListEngines(ctx)
	if err != nil {
		return model.NewError(requestID, fmt.Sprintf("failed to fetch engines: %v", err), model.CodeEnginesError)
	}
	return model.NewResponse(requestID, map[string]any{"engines": engines})
}

func (d *MCPDispatcher) handleGetCarDetails(ctx context.Context, requestID string, data map[string]any) *model.Response {
	rawID := stringField(data, "car_id")
	if rawID == "" {
		return model.NewError(requestID, "car_id is required", model.CodeMissingCarID)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return model.NewError(requestID, "car not found", model.CodeCarNotFound)
	}

	car, err := d.repo.GetCarByID(ctx, id)
	if err != nil {
		return model.NewError(requestID, fmt.Sprintf("failed to fetch car: %v", err), model.CodeCarDetailsError)
	}
	if car == nil {
		return model.NewError(requestID, "car not found", model.CodeCarNotFound)
	}
	return model.NewResponse(requestID, map[string]any{"car": car})
}

func (d *MCPDispatcher) handleGetFilterOptions(ctx context.Context, requestID string, _ map[string]any) *model.Response {
	opts, err := d.repo.GetFilterOptions(ctx)
	if err != nil {
		return model.NewError(requestID, fmt.Sprintf("failed to fetch filter options: %v", err), model.CodeFilterOptions)
	}
	return model.NewResponse(requestID, opts)
}

func intField(data map[string]any, key string, fallback int) int {
	switch n := data[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return fallback
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}
