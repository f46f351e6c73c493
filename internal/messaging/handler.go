package messaging

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/streamops/streammanager/internal/domain"
	"github.com/streamops/streammanager/internal/pkg/ctxlog"
	"github.com/streamops/streammanager/internal/pkg/httputil"
	"github.com/streamops/streammanager/internal/subscribers"
)

// Handler handles HTTP requests for the messaging module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new messaging handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers all HTTP routes for the messaging module.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/send-message", h.SendMessage)
}

var errorMappings = []httputil.ErrorMapping{
	{Error: subscribers.ErrSubscriberNotFound, Status: http.StatusNotFound},
	{Error: ErrUnknownMessageType, Status: http.StatusBadRequest},
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	SubscriberID string `json:"subscriberId" validate:"required"`
	MessageType  string `json:"messageType" validate:"required,oneof=recordatorio vencimiento personalizado"`
	Message      string `json:"message"`
}

// SendMessage handles POST /send-message.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	ctx := ctxlog.With(r.Context(), "subscriber_id", req.SubscriberID, "message_type", req.MessageType)

	result, err := h.service.SendMessage(ctx, req.SubscriberID, domain.MessageType(req.MessageType), req.Message)
	if err != nil {
		httputil.HandleError(ctx, w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}
