package engine

import (
	"time"

	"github.com/go-dshot/dshot/dshot"
)

// maxCapturedPulses bounds the receiver's capture buffer: a 20-bit
// GCR-coded, scrambled value can produce at most 20 run-length pulses
// (worst case alternating every bit) plus the line returning idle, so 21
// is enough headroom for every pulse a single burst can carry (spec §4.5:
// a burst is at most 11 symbols of two level/duration pairs each, 22 in
// all, of which a 20-bit value uses no more than 21).
const maxCapturedPulses = 21

// receiver is C5. It is only active in bidirectional mode, and only
// between a transmit-complete and either a full burst or an idle timeout.
type receiver struct {
	line    *LineDirection
	tickDur time.Duration
	rxMin   time.Duration
	rxMax   time.Duration
	clk     clock
}

func newReceiver(line *LineDirection, tickDur, rxMin, rxMax time.Duration, clk clock) *receiver {
	return &receiver{line: line, tickDur: tickDur, rxMin: rxMin, rxMax: rxMax, clk: clk}
}

// capture switches the wire to input mode and records level/duration pairs
// until either maxCapturedPulses have been seen or idleTimeout elapses
// with no further edge — whichever comes first — then returns to
// quiescent (spec §4.5 step 3). Pulses outside [rxMin, rxMax] are dropped
// rather than ending the capture, since a single runt edge (line noise)
// should not sink an otherwise-good burst.
func (r *receiver) capture(idleTimeout time.Duration) ([]dshot.Pulse, error) {
	pin, err := r.line.ToInput()
	if err != nil {
		return nil, dshot.ErrRxInitFailed
	}

	var pulses []dshot.Pulse
	last := r.clk.Now()
	lastLevel := pin.Read()
	for len(pulses) < maxCapturedPulses {
		if !pin.WaitForEdge(idleTimeout) {
			break
		}
		now := r.clk.Now()
		dur := now.Sub(last)
		last = now
		level := pin.Read()
		if dur >= r.rxMin && dur <= r.rxMax {
			pulses = append(pulses, dshot.Pulse{Level: lastLevel, Duration: uint32(dur / r.tickDur)})
		}
		lastLevel = level
	}
	return pulses, nil
}
