package engine

import (
	"time"

	"github.com/go-dshot/dshot/dshot"
	"periph.io/x/periph/conn/gpio"
)

// transmitter is C4: it owns the wire while a frame goes out. The gating
// decision ("has frame_gap elapsed") lives in Dev.send, not here — by the
// time send is called the coordinator has already decided to transmit.
//
// activeLevel is the level a "1" (or "0") pulse drives to; idleLevel is
// where the line rests between pulses and after the last symbol. Standard
// mode: activeLevel=High, idleLevel=Low. Bidirectional mode: inverted, so
// the wire floats high for the ESC's reply (spec §4.4).
type transmitter struct {
	line        *LineDirection
	activeLevel gpio.Level
	idleLevel   gpio.Level
	tickDur     time.Duration
	clk         clock
}

func newTransmitter(line *LineDirection, bidir bool, tickDur time.Duration, clk clock) *transmitter {
	active, idle := gpio.High, gpio.Low
	if bidir {
		active, idle = gpio.Low, gpio.High
	}
	return &transmitter{line: line, activeLevel: active, idleLevel: idle, tickDur: tickDur, clk: clk}
}

// send dispatches symbols exactly once: for each of the 17 symbols it
// drives activeLevel for HighTicks ticks then idleLevel for LowTicks
// ticks. The trailing (17th) symbol's HighTicks is always zero, so its
// only effect is holding idleLevel for TickTiming.IdleGap ticks (21
// bit-times) — the actual gap enforcement happens in Dev.send via the clock,
// this is just physically quiet wire time.
func (t *transmitter) send(symbols dshot.FrameSymbols) error {
	pin, err := t.line.ToOutput(t.idleLevel)
	if err != nil {
		return dshot.ErrTxInitFailed
	}
	for _, s := range symbols {
		if s.HighTicks > 0 {
			if err := pin.Out(t.activeLevel); err != nil {
				return dshot.ErrTransmissionFailed
			}
			t.clk.Sleep(time.Duration(s.HighTicks) * t.tickDur)
		}
		if s.LowTicks > 0 {
			if err := pin.Out(t.idleLevel); err != nil {
				return dshot.ErrTransmissionFailed
			}
			t.clk.Sleep(time.Duration(s.LowTicks) * t.tickDur)
		}
	}
	return pin.Out(t.idleLevel)
}
