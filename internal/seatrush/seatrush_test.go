package seatrush

import "math/rand"

// scriptedRand replays fixed draws so arbitration and pricing outcomes are
// forced instead of sampled. Exhausted scripts fall back to 0.5 / 0.
type scriptedRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRand) Float64() float64 {
	if r.fi < len(r.floats) {
		v := r.floats[r.fi]
		r.fi++
		return v
	}
	return 0.5
}

func (r *scriptedRand) Intn(n int) int {
	if r.ii < len(r.ints) {
		v := r.ints[r.ii]
		r.ii++
		return v % n
	}
	return 0
}

func seededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// fakeStep records the continuations it was started with so tests can drive
// the challenge outcome explicitly.
type fakeStep struct {
	id        string
	started   int
	onSuccess func()
	onExit    func()
}

func (f *fakeStep) ID() string { return f.id }

func (f *fakeStep) Start(onSuccess, onExit func()) {
	f.started++
	f.onSuccess = onSuccess
	f.onExit = onExit
}

// recorder captures outbound peer messages.
type recorder struct {
	messages []Message
}

func (r *recorder) send(msg Message) {
	r.messages = append(r.messages, msg)
}

func (r *recorder) ofType(t MessageType) []Message {
	var out []Message
	for _, m := range r.messages {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}
