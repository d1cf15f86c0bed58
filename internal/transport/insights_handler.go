package transport

import (
	"errors"
	"net/http"

	"craftdash/internal/domain"
	"craftdash/internal/middleware"
	"craftdash/internal/repository"
	"craftdash/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateProductsRequest is the bulk-generation payload.
type GenerateProductsRequest struct {
	Count    int    `json:"count" validate:"required"`
	BaseName string `json:"base_name"`
	Status   string `json:"status"`
}

// CreateOrderRequest is the purchase payload.
type CreateOrderRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// InsightsHandler serves the read-only admin pages and the two write
// operations (purchase, bulk generation).
type InsightsHandler struct {
	insights       service.InsightsService
	productService service.ProductService
	orderService   service.OrderService
	logger         *zap.Logger
}

// NewInsightsHandler creates a new InsightsHandler
func NewInsightsHandler(
	insights service.InsightsService,
	productService service.ProductService,
	orderService service.OrderService,
	logger *zap.Logger,
) *InsightsHandler {
	return &InsightsHandler{
		insights:       insights,
		productService: productService,
		orderService:   orderService,
		logger:         logger,
	}
}

// RegisterRoutes registers all admin page routes behind the auth middleware.
func (h *InsightsHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/products", h.Products)
		r.Get("/orders", h.Orders)
		r.Post("/orders", h.CreateOrder)
		r.Get("/revenue", h.Revenue)
		r.Post("/generate-products", h.GenerateProducts)
	})
}

// Dashboard returns the global summary with recent activity and, when
// connected, the Etsy shop listings.
func (h *InsightsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.insights.Dashboard(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build dashboard", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// Products returns the read-only product listing.
func (h *InsightsHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// Orders returns the read-only order listing with ledger totals.
func (h *InsightsHandler) Orders(w http.ResponseWriter, r *http.Request) {
	view, err := h.insights.Orders(r.Context())
	if err != nil {
		h.logger.Error("Failed to build orders view", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// CreateOrder records a purchase for the logged-in user.
func (h *InsightsHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), productID, userID, req.Quantity)
	if err != nil {
		h.logger.Debug("Order creation failed", zap.Error(err))

		if err == service.ErrInvalidQuantity {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("total_price", order.TotalPrice.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// Revenue returns the full analytics output.
func (h *InsightsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	view, err := h.insights.Revenue(r.Context())
	if err != nil {
		h.logger.Error("Failed to build revenue view", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build revenue view")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// GenerateProducts bulk-creates sample products.
func (h *InsightsHandler) GenerateProducts(w http.ResponseWriter, r *http.Request) {
	var req GenerateProductsRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Generation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := domain.ProductStatus(req.Status)
	if req.Status == "" {
		status = domain.ProductStatusActive
	}

	products, err := h.productService.Generate(r.Context(), req.Count, req.BaseName, status)
	if err != nil {
		h.logger.Debug("Product generation failed", zap.Error(err))

		if err == service.ErrInvalidCount {
			middleware.RespondWithError(w, http.StatusBadRequest, "please enter a valid number of products")
			return
		}
		if err == service.ErrInvalidProductStatus {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to generate products")
		return
	}

	h.logger.Info("Products generated", zap.Int("count", len(products)))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "products generated successfully",
		"products": products,
	})
}
