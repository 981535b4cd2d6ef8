package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"innkeeper/internal/bookings/service"
	apperrors "innkeeper/pkg/errors"
	httputil "innkeeper/pkg/http"
	"innkeeper/pkg/logger"
	"innkeeper/pkg/middleware"
	"innkeeper/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, auth *middleware.Authenticator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

type statusUpdateRequest struct {
	Status model.BookingStatus `json:"status"`
}

type paymentUpdateRequest struct {
	PaymentStatus model.PaymentStatus `json:"paymentStatus"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, "Create", errMissingPrincipal())
		return
	}

	var req model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeInvalidBody(w, "Create")
		return
	}

	booking, err := h.service.Reserve(r.Context(), principal, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

// ListMine serves the authenticated user's own bookings.
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, "ListMine", errMissingPrincipal())
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	bookings, total, err := h.service.GetByUser(r.Context(), principal.UserID, limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "error", err)
	}
}

// Cancel handles DELETE on a booking. The service enforces that non-admin
// callers only cancel bookings they own.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, "Cancel", errMissingPrincipal())
		return
	}

	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"), principal)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

func (h *BookingHandler) Checkout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Checkout(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Checkout", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Checkout", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeInvalidBody(w, "UpdateStatus")
		return
	}

	booking, err := h.service.SetStatus(r.Context(), ps.ByName("id"), req.Status)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "error", err)
	}
}

func (h *BookingHandler) UpdatePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req paymentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeInvalidBody(w, "UpdatePayment")
		return
	}

	booking, err := h.service.SetPaymentStatus(r.Context(), ps.ByName("id"), req.PaymentStatus)
	if err != nil {
		h.writeError(w, "UpdatePayment", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdatePayment", "error", err)
	}
}

// errMissingPrincipal covers the only way a Required route runs without a
// principal in context: the route was registered without the middleware.
func errMissingPrincipal() error {
	return apperrors.Unauthorized("Authentication required")
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) writeInvalidBody(w http.ResponseWriter, handlerName string) {
	if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/bookings", h.auth.Required(h.Create))
	router.GET("/bookings", h.auth.AdminOnly(h.List))
	router.GET("/bookings/my-bookings", h.auth.Required(h.ListMine))
	router.DELETE("/bookings/:id", h.auth.Required(h.Cancel))
	router.PATCH("/bookings/:id/status", h.auth.AdminOnly(h.UpdateStatus))
	router.PATCH("/bookings/:id/checkout", h.auth.AdminOnly(h.Checkout))
	router.PATCH("/bookings/:id/payment", h.auth.AdminOnly(h.UpdatePayment))
}
