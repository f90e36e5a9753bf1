package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/deadnumber/internal/api/apierr"
	"github.com/mcoot/deadnumber/internal/api/response"
	"github.com/mcoot/deadnumber/internal/model"
)

// RoomSource provides room snapshots
type RoomSource interface {
	Rooms() []model.RoomSummary
}

// RoomHandler handles read-only room endpoints
type RoomHandler struct {
	rooms RoomSource
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms RoomSource) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.RoomListFromModel(h.rooms.Rooms()))
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])
	if id == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("room id is required"))
		return
	}

	for _, summary := range h.rooms.Rooms() {
		if summary.ID == id {
			response.JSON(w, http.StatusOK, response.RoomFromModel(summary))
			return
		}
	}
	apierr.WriteError(w, model.ErrRoomNotFound)
}
