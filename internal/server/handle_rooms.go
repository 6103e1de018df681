package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type CreateRoomRequest struct {
	Mode string `json:"mode"`
}

type CreateRoomResponse struct {
	Code string `json:"code"`
	Mode string `json:"mode"`
}

func handleCreateRoom(logger *slog.Logger, rooms *Rooms) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoomRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		mode := Mode(req.Mode)
		if mode == "" {
			mode = ModeSolo
		}
		if mode != ModeSolo && mode != ModeVersus {
			writeError(w, http.StatusBadRequest, "mode must be solo or versus")
			return
		}

		room := rooms.Create(mode)
		writeJSON(w, http.StatusCreated, CreateRoomResponse{Code: room.Code, Mode: string(room.Mode)})
	}
}

func handleRoomStatus(rooms *Rooms) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, err := rooms.Get(chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		status, err := room.Status()
		if errors.Is(err, ErrRoomClosed) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}
