package server

import (
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/vincewoo/seatrush/internal/seatrush"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room full")
	ErrRoomClosed   = errors.New("room closed")
)

// Mode distinguishes a single-player room from a two-peer versus room.
type Mode string

const (
	ModeSolo   Mode = "solo"
	ModeVersus Mode = "versus"
)

// RoomConfig carries the game parameters every room inherits.
type RoomConfig struct {
	Duration    int
	SkipPenalty int
	DefaultGrid seatrush.GridConfig
}

// Rooms is the in-process registry of live rooms, keyed by join code.
type Rooms struct {
	logger *slog.Logger
	cfg    RoomConfig

	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand
}

func NewRooms(logger *slog.Logger, cfg RoomConfig) *Rooms {
	return &Rooms{
		logger: logger,
		cfg:    cfg,
		rooms:  make(map[string]*Room),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Defaults exposes the grid used when a client states no preference.
func (r *Rooms) Defaults() seatrush.GridConfig {
	return r.cfg.DefaultGrid
}

// codeAlphabet avoids 0/O and 1/I so codes survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func (r *Rooms) newCode() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = codeAlphabet[r.rng.Intn(len(codeAlphabet))]
	}
	return string(code)
}

// Create opens a new room and starts its actor.
func (r *Rooms) Create(mode Mode) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.newCode()
	for r.rooms[code] != nil {
		code = r.newCode()
	}

	room := newRoom(code, mode, r.cfg, r.logger, r.rng.Int63(), func() { r.remove(code) })
	r.rooms[code] = room
	r.logger.Info("room created", "code", code, "mode", mode)
	return room
}

// Get looks a room up by code.
func (r *Rooms) Get(code string) (*Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// remove is invoked by a room closing itself.
func (r *Rooms) remove(code string) {
	r.mu.Lock()
	delete(r.rooms, code)
	r.mu.Unlock()
	r.logger.Info("room closed", "code", code)
}

// Count reports live rooms, for the health endpoint.
func (r *Rooms) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
