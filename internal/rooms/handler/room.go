package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"innkeeper/internal/rooms/service"
	httputil "innkeeper/pkg/http"
	"innkeeper/pkg/logger"
	"innkeeper/pkg/middleware"
	"innkeeper/pkg/model"
)

type RoomHandler struct {
	service service.RoomService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, auth *middleware.Authenticator, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

// List serves the public room catalog. With ?available=true only rooms whose
// availability flag is set are returned.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	onlyAvailable := r.URL.Query().Get("available") == "true"

	rooms, total, err := h.service.GetAll(r.Context(), onlyAvailable, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, rooms, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		h.writeInvalidBody(w, "Create")
		return
	}

	if err := h.service.Create(r.Context(), &room); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, room); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.RoomUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeInvalidBody(w, "Update")
		return
	}

	room, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"message": "Room deleted successfully"}); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "error", err)
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *RoomHandler) writeInvalidBody(w http.ResponseWriter, handlerName string) {
	if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/rooms", h.List)
	router.GET("/rooms/:id", h.GetByID)
	router.POST("/rooms", h.auth.AdminOnly(h.Create))
	router.PATCH("/rooms/:id", h.auth.AdminOnly(h.Update))
	router.DELETE("/rooms/:id", h.auth.AdminOnly(h.Delete))
}
