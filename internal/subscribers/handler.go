package subscribers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/streamops/streammanager/internal/domain"
	"github.com/streamops/streammanager/internal/pkg/httputil"
)

// Handler handles HTTP requests for the subscribers module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new subscribers handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers all HTTP routes for the subscribers module.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/subscribers", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	r.Get("/stats", h.GetStats)
	r.Get("/services", h.ListServices)
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrSubscriberNotFound, Status: http.StatusNotFound},
	{Error: ErrUnknownService, Status: http.StatusBadRequest},
	{Error: ErrInvalidPhone, Status: http.StatusBadRequest},
}

// CreateSubscriberRequest represents the request body for creating a subscriber.
type CreateSubscriberRequest struct {
	Service        string      `json:"service" validate:"required"`
	Name           string      `json:"name" validate:"required,min=1,max=100"`
	Phone          string      `json:"phone" validate:"required"`
	Email          string      `json:"email" validate:"required,email"`
	ExpirationDate domain.Date `json:"expirationDate"`
}

// UpdateSubscriberRequest represents the request body for a partial update.
type UpdateSubscriberRequest struct {
	Service        *string      `json:"service"`
	Name           *string      `json:"name"`
	Phone          *string      `json:"phone"`
	Email          *string      `json:"email" validate:"omitempty,email"`
	ExpirationDate *domain.Date `json:"expirationDate"`
}

// ListSubscribersResponse represents the subscriber list payload.
type ListSubscribersResponse struct {
	Subscribers []domain.Subscriber `json:"subscribers"`
	Total       int                 `json:"total"`
}

// ServicesResponse represents the streaming services payload.
type ServicesResponse struct {
	Services []domain.StreamingService `json:"services"`
}

// List handles GET /subscribers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.List(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, ListSubscribersResponse{
		Subscribers: subs,
		Total:       len(subs),
	})
}

// Create handles POST /subscribers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSubscriberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}
	if req.ExpirationDate.IsZero() {
		httputil.Error(w, http.StatusBadRequest, "expirationDate is required")
		return
	}

	sub, err := h.service.Create(r.Context(), CreateInput{
		Service:        req.Service,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusCreated, sub)
}

// Get handles GET /subscribers/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, sub)
}

// Update handles PUT /subscribers/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateSubscriberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	sub, err := h.service.Update(r.Context(), id, UpdateInput{
		Service:        req.Service,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, sub)
}

// Delete handles DELETE /subscribers/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{
		"message": "Subscriber deleted successfully",
	})
}

// GetStats handles GET /stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, stats)
}

// ListServices handles GET /services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, ServicesResponse{
		Services: domain.StreamingServices(),
	})
}
