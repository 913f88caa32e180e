package ledger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stocklight/stocklight/internal/platform/httpx"
	"github.com/stocklight/stocklight/internal/shared"
	"github.com/stocklight/stocklight/internal/sku"
)

// IdempotencyPort is the slice of the idempotency store the handler needs.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// Handler wires HTTP endpoints for quantity adjustment and low-stock
// reporting.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	idempotency IdempotencyPort
}

// NewHandler constructs a Handler instance. The idempotency store is
// optional; without it the Idempotency-Key header is ignored.
func NewHandler(logger *slog.Logger, service *Service, idem IdempotencyPort) *Handler {
	return &Handler{logger: logger, service: service, idempotency: idem}
}

// MountRoutes registers ledger routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/low-stock", h.handleLowStock)
	r.Post("/{code}/adjust", h.handleAdjust)
}

// AdjustInput is the request body for a quantity adjustment.
type AdjustInput struct {
	Delta int64 `json:"delta"`
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	var in AdjustInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	code := chi.URLParam(r, "code")

	key := r.Header.Get("Idempotency-Key")
	insertedKey := false
	if key != "" && h.idempotency != nil {
		if _, err := uuid.Parse(key); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Idempotency Key", "Idempotency-Key must be a UUID")
			return
		}
		if err := h.idempotency.CheckAndInsert(r.Context(), key, "ledger"); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				httpx.Problem(w, http.StatusConflict, "Duplicate Request", "this adjustment was already processed")
				return
			}
			h.logger.Error("idempotency check failed", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		insertedKey = true
	}

	item, err := h.service.AdjustQuantity(r.Context(), code, in.Delta)
	if err != nil {
		if insertedKey {
			_ = h.idempotency.Delete(r.Context(), key)
		}
		h.respondError(w, r, err)
		return
	}
	h.logger.Info("quantity adjusted",
		slog.String("code", item.Code),
		slog.Int64("delta", in.Delta),
		slog.Int64("quantity", item.Quantity))
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) handleLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.LowStock(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if items == nil {
		items = []sku.SKU{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sku.ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, sku.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "sku does not exist or is inactive")
	case errors.Is(err, sku.ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", "adjustment would drive quantity negative")
	case errors.Is(err, sku.ErrPreconditionFailed):
		httpx.Problem(w, http.StatusConflict, "Conflict", "concurrent update conflict, retry the request")
	default:
		h.logger.Error("ledger request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
