package engine

import "sync/atomic"

// wireState is the per-wire state machine of spec §4.8: Idle,
// Transmitting, Listening, Decoding.
type wireState int32

const (
	stateIdle wireState = iota
	stateTransmitting
	stateListening
	stateDecoding
)

func (s wireState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateTransmitting:
		return "transmitting"
	case stateListening:
		return "listening"
	case stateDecoding:
		return "decoding"
	default:
		return "unknown"
	}
}

// stateVar is an atomic wireState, one per Dev. It exists as a named type
// rather than a bare atomic.Int32 so transitions are self-documenting at
// the call site (e.g. sv.set(stateListening)).
type stateVar struct {
	v atomic.Int32
}

func (sv *stateVar) get() wireState        { return wireState(sv.v.Load()) }
func (sv *stateVar) set(s wireState)       { sv.v.Store(int32(s)) }
func (sv *stateVar) compareAndSwap(old, new wireState) bool {
	return sv.v.CompareAndSwap(int32(old), int32(new))
}
