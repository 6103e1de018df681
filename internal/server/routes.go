package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, rooms *Rooms) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Seatrush API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(rooms))

	r.Post("/api/rooms", handleCreateRoom(logger, rooms))
	r.Get("/api/rooms/{code}", handleRoomStatus(rooms))

	r.Get("/ws/rooms/{code}", handleAttach(logger, rooms))
}
