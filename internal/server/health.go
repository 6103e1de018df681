package server

import "net/http"

type HealthResponse struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
}

// handleHealth has no backing stores to probe; a live process with a
// responsive registry is healthy.
func handleHealth(rooms *Rooms) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Rooms: rooms.Count()})
	}
}
