package sku

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stocklight/stocklight/internal/platform/httpx"
)

// Handler wires HTTP endpoints for SKU master data.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers SKU routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/{code}", h.handleGet)
	r.Patch("/{code}", h.handleUpdate)
	r.Delete("/{code}", h.handleDeactivate)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in CreateSKUInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), in.toSKU())
	if err != nil {
		h.respondError(w, r, "create sku", err)
		return
	}
	h.logger.Info("sku created", slog.String("code", created.Code))
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondError(w, r, "get sku", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}

	filters := ListFilters{
		Page:       page,
		Limit:      limit,
		Search:     q.Get("search"),
		ActiveOnly: q.Get("active_only") == "true",
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.respondError(w, r, "list skus", err)
		return
	}
	if items == nil {
		items = []SKU{}
	}
	httpx.JSON(w, http.StatusOK, ListResponse{Items: items, Page: page, Limit: limit, Total: total})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var in UpdateSKUInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	updated, err := h.service.UpdateFields(r.Context(), chi.URLParam(r, "code"), in.toPatch())
	if err != nil {
		h.respondError(w, r, "update sku", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Deactivate(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondError(w, r, "deactivate sku", err)
		return
	}
	h.logger.Info("sku deactivated", slog.String("code", item.Code))
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "sku does not exist")
	case errors.Is(err, ErrDuplicateCode):
		httpx.Problem(w, http.StatusConflict, "Duplicate Code", "sku code already exists")
	case errors.Is(err, ErrPreconditionFailed):
		httpx.Problem(w, http.StatusConflict, "Conflict", "concurrent update conflict, retry the request")
	default:
		h.logger.Error(op+" failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
