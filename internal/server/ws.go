package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/vincewoo/seatrush/internal/seatrush"
)

// handleAttach upgrades the connection and binds it to a room slot. The
// optional columns and rows query parameters carry the client's preferred
// grid, which versus rooms reconcile to the smaller of the two.
func handleAttach(logger *slog.Logger, rooms *Rooms) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		room, err := rooms.Get(code)
		if err != nil {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		grid := gridFromQuery(r, rooms.Defaults())

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		p, err := room.Attach(conn, grid)
		if err != nil {
			reason := "room closed"
			if errors.Is(err, ErrRoomFull) {
				reason = "room full"
			}
			conn.Close(websocket.StatusPolicyViolation, reason)
			return
		}
		defer room.Detach(p.slot)

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
		defer cancel()

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				logger.Debug("websocket read ended", "room", code, "error", err)
				return
			}
			var frame ClientFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				p.sendFrame(ServerFrame{Type: FrameError, Error: "malformed frame"})
				continue
			}
			room.Dispatch(p.slot, frame)
		}
	}
}

func gridFromQuery(r *http.Request, fallback seatrush.GridConfig) seatrush.GridConfig {
	cols, _ := strconv.Atoi(r.URL.Query().Get("columns"))
	rows, _ := strconv.Atoi(r.URL.Query().Get("rows"))
	if cols < 1 || rows < 1 {
		return fallback
	}
	return seatrush.GridConfig{Columns: cols, Rows: rows, Total: cols * rows}
}
