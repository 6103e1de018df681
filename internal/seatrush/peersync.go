package seatrush

// MessageType tags a peer message. Authority per type: target, event times,
// availability, and prices flow host→guest only; carts, claims, scores, and
// game end flow both ways.
type MessageType string

const (
	MsgInit               MessageType = "init"
	MsgScreenSize         MessageType = "screenSize"
	MsgGridLayoutSync     MessageType = "gridLayoutSync"
	MsgInitialState       MessageType = "initialState"
	MsgTargetUpdate       MessageType = "targetUpdate"
	MsgEventTimes         MessageType = "eventTimes"
	MsgAvailabilityUpdate MessageType = "availabilityUpdate"
	MsgPriceUpdate        MessageType = "priceUpdate"
	MsgCartUpdate         MessageType = "cartUpdate"
	MsgSeatClaimed        MessageType = "seatClaimed"
	MsgScoreUpdate        MessageType = "scoreUpdate"
	MsgGameEnd            MessageType = "gameEnd"
)

// Message is the single wire envelope exchanged between peers. The
// transport must deliver messages in send order; both hops used here (the
// in-process room queue and one websocket) already are, so no sequence
// numbers are carried.
type Message struct {
	Type         MessageType          `json:"type"`
	Grid         *GridConfig          `json:"gridConfig,omitempty"`
	Availability []AvailabilityChange `json:"availability,omitempty"`
	Prices       []PriceChange        `json:"prices,omitempty"`
	Target       int                  `json:"targetTicketCount,omitempty"`
	SaleStart    int                  `json:"saleStartTime,omitempty"`
	SurgeStart   int                  `json:"surgeStartTime,omitempty"`
	Cart         []string             `json:"cart,omitempty"`
	SeatID       string               `json:"seatId,omitempty"`
	Score        float64              `json:"score,omitempty"`
}

// SendGridOffer opens grid negotiation: the host offers with init, the
// guest with screenSize.
func (s *Session) SendGridOffer() {
	typ := MsgScreenSize
	if s.cfg.Host {
		typ = MsgInit
	}
	grid := s.cfg.Grid
	s.send(Message{Type: typ, Grid: &grid})
}

// HandlePeerMessage applies one inbound peer message. It must run on the
// session's goroutine, between ticks — never concurrently with them.
// Messages referencing unknown seats, and state arriving after game end,
// degrade to no-ops rather than fail.
func (s *Session) HandlePeerMessage(msg Message) {
	switch msg.Type {
	case MsgInit, MsgScreenSize:
		// Peer's grid offer: the smaller grid by total seat count wins, and
		// the receiver confirms the choice.
		if msg.Grid == nil {
			return
		}
		negotiated := s.cfg.Grid.SmallerOf(*msg.Grid)
		s.cfg.Grid = negotiated
		s.send(Message{Type: MsgGridLayoutSync, Grid: &negotiated})

	case MsgGridLayoutSync:
		if msg.Grid != nil {
			s.cfg.Grid = *msg.Grid
		}

	case MsgInitialState, MsgAvailabilityUpdate:
		if s.market != nil && !s.ended {
			s.market.ApplyAvailability(msg.Availability)
		}

	case MsgPriceUpdate:
		if s.market != nil && !s.ended {
			s.market.ApplyPrices(msg.Prices)
		}

	case MsgTargetUpdate:
		if s.ended {
			return
		}
		s.target = msg.Target

	case MsgEventTimes:
		s.saleStart = msg.SaleStart
		s.surgeStart = msg.SurgeStart

	case MsgCartUpdate:
		s.opponentCart = msg.Cart

	case MsgSeatClaimed:
		if s.market != nil && !s.ended {
			s.market.ClaimByOpponent(msg.SeatID, s.now())
		}

	case MsgScoreUpdate:
		s.opponentScore = msg.Score

	case MsgGameEnd:
		if s.running {
			s.End(false)
		}
	}
}

// OpponentScore is the local view of the peer's score.
func (s *Session) OpponentScore() float64 { return s.opponentScore }
