package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Seatrush API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Seatrush seat-buying game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns process health and the number of live rooms.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	// POST /api/rooms
	postRoom, _ := r.NewOperationContext(http.MethodPost, "/api/rooms")
	postRoom.SetSummary("Create room")
	postRoom.SetDescription("Creates a solo or versus room and returns its join code.")
	postRoom.AddReqStructure(CreateRoomRequest{})
	postRoom.AddRespStructure(CreateRoomResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postRoom)

	// GET /api/rooms/{code}
	getRoom, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}")
	getRoom.SetSummary("Room status")
	getRoom.SetDescription("Looks a room up by join code before connecting.")
	getRoom.AddRespStructure(RoomStatus{}, openapi.WithHTTPStatus(http.StatusOK))
	getRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRoom)

	// GET /ws/rooms/{code}
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/rooms/{code}")
	getWS.SetSummary("Join a room")
	getWS.SetDescription("Upgrades to a WebSocket connection carrying game frames. " +
		"Optional columns and rows query parameters state the client's preferred grid.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	getWS.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
